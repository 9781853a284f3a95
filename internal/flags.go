package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddDownloadFlags adds flags related to downloading and converting
func AddDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("youtube-id", "i", "", "YouTube video ID (or pass it as an argument)")
	cmd.Flags().Bool("convert-mp3", false, "Also convert the video to mp3 with cover art")
	cmd.Flags().BoolP("force", "f", false, "Replace existing files without asking")
	cmd.Flags().Bool("copy-path", false, "Copy the path of the resulting file to the clipboard")
}

// HandleVerboseFlag processes the --verbose, --debug and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("failed to get debug flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	config.Verbose = config.Verbose || verbose || debug
	config.Debug = debug
	config.Quiet = quiet
	return nil
}

// HandleFetcherFlag overrides the configured fetch backend when --fetcher is set
func HandleFetcherFlag(cmd *cobra.Command, config *Config) error {
	flag := cmd.Flags().Lookup("fetcher")
	if flag == nil || !flag.Changed {
		return nil
	}
	config.Fetcher = flag.Value.String()
	return nil
}

// VideoIDFromArgs takes the video from --youtube-id or the single positional argument
func VideoIDFromArgs(cmd *cobra.Command, args []string) (string, error) {
	flagID, _ := cmd.Flags().GetString("youtube-id")

	switch {
	case flagID != "" && len(args) > 0:
		return "", fmt.Errorf("pass the video either as an argument or with --youtube-id, not both")
	case flagID != "":
		_, id := ParseArg(flagID)
		return id, nil
	case len(args) == 1:
		_, id := ParseArg(args[0])
		return id, nil
	default:
		return "", fmt.Errorf("a YouTube video ID or URL is required")
	}
}
