package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtzll/tubesave/internal"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List downloaded videos and converted audio",
	Example: `  # Show the download history
  tubesave history

  # Print plain text instead of a rendered table
  tubesave history --plain`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := internal.LoadHistory(config.HistoryFile)
		if err != nil {
			return err
		}

		entries := history.Entries()
		if len(entries) == 0 {
			fmt.Printf("No downloads recorded in %s\n", history.Path())
			return nil
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			for _, entry := range entries {
				fmt.Printf("%s\t%s\t%s\n", entry.Kind, entry.ID, entry.Name+entry.Kind.Ext())
			}
			return nil
		}

		rendered, err := internal.RenderMarkdown(historyMarkdown(history.Path(), entries))
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

// historyPruneCmd represents the history prune subcommand
var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Forget history entries whose files were deleted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := internal.LoadHistory(config.HistoryFile)
		if err != nil {
			return err
		}

		removed := history.Prune(config.DownloadDir)
		if len(removed) == 0 {
			fmt.Println("Nothing to prune")
			return nil
		}

		if err := history.Save(); err != nil {
			return err
		}
		for _, entry := range removed {
			logger.Sugar().Infow("pruned history entry", "kind", string(entry.Kind), "id", entry.ID, "name", entry.Name)
			fmt.Printf("Removed %s %s (%s)\n", entry.Kind, entry.ID, entry.Name+entry.Kind.Ext())
		}
		return nil
	},
}

// historyMarkdown lays the entries out as a markdown table
func historyMarkdown(path string, entries []internal.HistoryEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# History\n\n`%s`\n\n", path)
	sb.WriteString("| Kind | Video ID | File | On disk |\n")
	sb.WriteString("|------|----------|------|---------|\n")
	for _, entry := range entries {
		file := entry.Name + entry.Kind.Ext()
		onDisk := "yes"
		if !internal.FileExists(filepath.Join(config.DownloadDir, file)) {
			onDisk = "**missing**"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", entry.Kind, entry.ID, strings.ReplaceAll(file, "|", "\\|"), onDisk)
	}
	return sb.String()
}

func init() {
	historyCmd.Flags().Bool("plain", false, "Print tab separated lines instead of a table")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}
