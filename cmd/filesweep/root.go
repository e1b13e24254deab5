package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "filesweep",
	Short: "Filesweep - retention policy enforcement for directories",
	Long: `Filesweep enforces retention policies on filesystem directories.
For each configured policy it deletes files matching a pattern that are
older than the retention window, optionally recursing into subdirectories,
with a bounded number of policies running concurrently.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
}
