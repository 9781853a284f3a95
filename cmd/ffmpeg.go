package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rtzll/tubesave/internal"
)

// ffmpegCmd represents the ffmpeg command
var ffmpegCmd = &cobra.Command{
	Use:   "ffmpeg [DIR]",
	Short: "Show or set the directory containing ffmpeg",
	Long: `Without arguments, shows which ffmpeg binary would be used for mp3 conversion,
asking for its directory if it can't be found.

With a directory argument, checks that it contains ffmpeg and saves it as
ffmpeg_dir in the settings file.`,
	Example: `  # Show the ffmpeg in use
  tubesave ffmpeg

  # Use ffmpeg from a custom directory
  tubesave ffmpeg ~/tools/ffmpeg/bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			dir, err := filepath.Abs(internal.ExpandHome(args[0]))
			if err != nil {
				return fmt.Errorf("resolving directory: %w", err)
			}
			if _, ok := internal.FindFFmpeg(dir); !ok {
				return fmt.Errorf("%w in %s", internal.ErrTranscoderNotFound, dir)
			}
			if err := internal.SaveFFmpegDir(config.SettingsFile, dir); err != nil {
				return err
			}
			fmt.Printf("Saved ffmpeg directory %s to %s\n", dir, config.SettingsFile)
			return nil
		}

		noInput, _ := cmd.Flags().GetBool("no-input")
		app := internal.NewApp(config, logger, internal.WithPrompter(internal.NewPrompter(noInput)))

		path, err := app.Locator().Locate()
		if err != nil {
			return err
		}
		transcoder := internal.NewTranscoder(&internal.DefaultCommandRunner{}, path)
		if err := transcoder.Verify(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("ffmpeg: %s\n", transcoder.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ffmpegCmd)
}
