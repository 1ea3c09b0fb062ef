package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/recall/internal/cli"
	"github.com/example/recall/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "recall",
		Short:   "recall - session memory for coding agents",
		Version: version.String(),
		Long: `recall captures what happened in coding agent sessions and feeds it
back: known error patterns (SOPs), accumulated knowledge, failure
history, and reviewable learning proposals.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.HookCmd())
	rootCmd.AddCommand(cli.SessionsCmd())
	rootCmd.AddCommand(cli.FailuresCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.SOPsCmd())
	rootCmd.AddCommand(cli.LearnCmd())
	rootCmd.AddCommand(cli.InstallCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
