package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // overridden at build time via -ldflags
	commit  = ""
	date    = ""
)

// fetchModules are reported by `version --deps`, they break most often when YouTube changes
var fetchModules = []string{
	"github.com/kkdai/youtube/v2",
	"github.com/lrstanley/go-ytdlp",
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Example: `  # Show version information
  tubesave version

  # Include the versions of the fetch backends
  tubesave version --deps`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v, c := version, commit
		info, ok := debug.ReadBuildInfo()
		if ok && v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
		if c == "" {
			c = "unknown"
		}
		fmt.Printf("tubesave %s (commit: %s, built %s, %s)\n", v, c, date, runtime.Version())

		if deps, _ := cmd.Flags().GetBool("deps"); deps && ok {
			for _, dep := range info.Deps {
				for _, name := range fetchModules {
					if dep.Path == name {
						fmt.Printf("  %s %s\n", dep.Path, dep.Version)
					}
				}
			}
		}
	},
}

func init() {
	versionCmd.Flags().Bool("deps", false, "Also print the versions of the fetch libraries")
	rootCmd.AddCommand(versionCmd)
}
