// Package cmd implements the advisor CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Advisor - grounded AI review of project artifacts",
	Long: `Advisor reviews a generated project artifact against the other
artifacts in the same project. It assembles a citable context window,
invokes the configured model under grounding constraints, and stores
the review as a new artifact with traceable back-references.

Run "advisor serve" to start the HTTP API or "advisor review" for a
single review from the command line.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
