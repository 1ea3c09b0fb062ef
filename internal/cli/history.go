package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the command history of the current session",
		Long: `Show every Bash command of the newest transcript with its outcome.

Failed commands are marked and carry their (truncated) error output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			failedOnly, _ := cmd.Flags().GetBool("failed")

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			entries, err := wire.SessionService().History(cmdContext(), cwd)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No commands in the current session yet.")
				return nil
			}

			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)
			faint := color.New(color.Faint)

			for _, e := range entries {
				if failedOnly && !e.Failed {
					continue
				}
				if e.Failed {
					red.Print("x ")
				} else {
					green.Print("+ ")
				}
				fmt.Println(e.Command)
				if e.Failed && e.Error != "" {
					faint.Printf("    %s\n", models.Truncate(e.Error, 100))
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("failed", false, "Show only failed commands")

	return cmd
}
