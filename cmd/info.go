package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/tubesave/internal"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [YouTube URL or ID]",
	Short: "Show details of a video without downloading it",
	Example: `  # Show title, author and the format that would be downloaded
  tubesave info dQw4w9WgXcQ

  # Save details to file
  tubesave info dQw4w9WgXcQ -o info.json

  # Format output as pretty JSON
  tubesave info dQw4w9WgXcQ --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config, logger)
		_, videoID := internal.ParseArg(args[0])

		video, err := app.Info(cmd.Context(), videoID)
		if err != nil {
			return err
		}

		var jsonData []byte
		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty {
			jsonData, err = json.MarshalIndent(video, "", "  ")
		} else {
			jsonData, err = json.Marshal(video)
		}
		if err != nil {
			return fmt.Errorf("error converting video details to JSON: %w", err)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, jsonData, 0644)
		}

		fmt.Println(string(jsonData))
		return nil
	},
}

func init() {
	infoCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	infoCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	rootCmd.AddCommand(infoCmd)
}
