package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/wire"
)

// FailuresCmd returns the failures command
func FailuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "failures",
		Short: "Show recurring failure patterns for this project",
		Long: `Show the project's recorded command failures grouped by category.

Repeated failures of the same command prefix are merged with a count,
so the report surfaces patterns rather than individual incidents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			report, err := wire.SessionService().FailureReport(cmdContext(), cwd)
			if err != nil {
				return err
			}

			red := color.New(color.FgRed, color.Bold)
			bold := color.New(color.Bold)
			faint := color.New(color.Faint)

			if len(report) == 0 {
				fmt.Println("No failures recorded for this project.")
			}

			for _, group := range report {
				red.Printf("%s", group.Category)
				faint.Printf(" (%d total)\n", group.Total)

				for _, occ := range group.Occurrences {
					fmt.Printf("  %s", models.Truncate(occ.Command, 70))
					if occ.Count > 1 {
						faint.Printf(" (%dx)", occ.Count)
					}
					fmt.Println()
					if occ.Error != "" {
						faint.Printf("    %s\n", models.Truncate(occ.Error, 100))
					}
				}
				fmt.Println()
			}

			knowledge, err := wire.LearnService().Knowledge(cmdContext(), cwd)
			if err != nil {
				return err
			}
			for _, cat := range models.Categories {
				items := knowledge[cat]
				if len(items) == 0 {
					continue
				}
				bold.Printf("%s (accepted learnings)\n", cat)
				for _, item := range items {
					fmt.Printf("  - %s\n", item)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
