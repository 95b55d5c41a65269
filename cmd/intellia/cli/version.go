package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the intellia version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("intellia", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
