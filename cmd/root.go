package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rtzll/tubesave/internal"
)

var (
	config *internal.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tubesave [YouTube URL or ID]",
	Short: "Download a YouTube video and optionally convert it to mp3",
	Long: `tubesave downloads a single YouTube video as mp4 into the download directory.

With --convert-mp3 it also converts the video to mp3 with ffmpeg and embeds
a frame of the video as cover art.

Downloads are recorded in a history file so running the same command again
skips work that is already done. Existing files are only replaced after
confirmation (or with --force).`,
	Example: `  # Download a video
  tubesave dQw4w9WgXcQ
  tubesave --youtube-id dQw4w9WgXcQ
  tubesave "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

  # Download and convert to mp3 with cover art
  tubesave -i dQw4w9WgXcQ --convert-mp3

  # Replace existing files without asking
  tubesave dQw4w9WgXcQ --convert-mp3 --force`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleVerboseFlag(cmd, config); err != nil {
			return err
		}
		if err := internal.HandleFetcherFlag(cmd, config); err != nil {
			return err
		}
		if err := config.Validate(); err != nil {
			return err
		}

		var err error
		logger, err = internal.NewLogger(config.LogDir, config.Debug)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)
		logger.Debug("starting", zap.String("command", cmd.CommandPath()), zap.Strings("args", args))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && internal.IsLikelyCommand(args[0]) {
			return unknownCommandError(cmd, args[0])
		}

		videoID, err := internal.VideoIDFromArgs(cmd, args)
		if err != nil {
			return err
		}
		if !internal.IsValidYouTubeID(videoID) {
			logger.Warn("video ID does not look like a YouTube ID", zap.String("id", videoID))
		}

		convert, _ := cmd.Flags().GetBool("convert-mp3")
		force, _ := cmd.Flags().GetBool("force")
		noInput, _ := cmd.Flags().GetBool("no-input")

		app := internal.NewApp(config, logger, internal.WithPrompter(internal.NewPrompter(noInput)))

		result, err := app.Run(cmd.Context(), internal.Request{
			VideoID:    videoID,
			ConvertMP3: convert,
			Force:      force,
		})

		var partial *internal.PartialError
		if errors.As(err, &partial) {
			// The mp3 exists, only cover art or tags are missing
			fmt.Fprintf(os.Stderr, "Warning: %v\n", partial)
		} else if err != nil {
			return err
		}

		if copyPath, _ := cmd.Flags().GetBool("copy-path"); copyPath {
			if err := clipboard.WriteAll(result.OutputPath()); err != nil {
				return fmt.Errorf("copying path to clipboard: %w", err)
			}
			if !config.Quiet {
				fmt.Println("Path copied to clipboard")
			}
		}

		return nil
	},
}

func unknownCommandError(cmd *cobra.Command, arg string) error {
	var suggestions []string
	for _, c := range cmd.Root().Commands() {
		name := c.Name()
		if strings.Contains(name, arg) || strings.Contains(arg, name) {
			suggestions = append(suggestions, name)
		}
	}

	if len(suggestions) > 0 {
		return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Use --help to see available commands", arg)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	if err := internal.EnsureDirs(config.ConfigDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default settings: %v\n", err)
	}

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddDownloadFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to the console and log file")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress and status output")
	rootCmd.PersistentFlags().Bool("no-input", false, "Never prompt; keep existing files and fail if ffmpeg can't be found")
	rootCmd.PersistentFlags().String("fetcher", internal.FetcherNative, "Video fetch backend (native or ytdlp)")
}
