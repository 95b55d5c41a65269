// Package cli implements the intellia command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/its-pratyushpandey/Intellia/internal/config"
)

// cfg holds the environment configuration, populated in PersistentPreRun.
var cfg *config.Configuration

var rootCmd = &cobra.Command{
	Use:   "intellia",
	Short: "Voice command session engine",
	Long: "Intellia runs voice assistant sessions: continuous utterance capture,\n" +
		"wake-word gating, remote intent classification, and spoken replies.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
