package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  tubesave paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Settings file: %s\n", config.SettingsFile)
		fmt.Printf("Download directory: %s\n", config.DownloadDir)
		fmt.Printf("History file: %s\n", config.HistoryFile)
		fmt.Printf("Log directory: %s\n", config.LogDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
