package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/wire"
)

// LearnCmd returns the learn command
func LearnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Review pending learning proposals",
		Long: `Review the queue of heuristic learning proposals.

Accepted proposals become knowledge entries; rejected ones are
deleted. Nothing enters the knowledge store without review.

Examples:
  recall learn                      # list pending proposals
  recall learn accept <id>
  recall learn accept <id> --flip   # store in the opposite scope
  recall learn reject <id>
  recall learn skip <id>            # keep it queued for later
  recall learn --batch              # accept everything as suggested
  recall learn accept-all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, _ := cmd.Flags().GetBool("batch")
			if batch {
				return runLearnAcceptAll()
			}
			return runLearnList()
		},
	}

	cmd.Flags().Bool("batch", false, "Accept every pending proposal with its suggested scope")

	cmd.AddCommand(learnAcceptCmd())
	cmd.AddCommand(learnRejectCmd())
	cmd.AddCommand(learnSkipCmd())
	cmd.AddCommand(learnAcceptAllCmd())

	return cmd
}

func runLearnList() error {
	pending, err := wire.LearnService().ListPending(cmdContext())
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending learnings.")
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Printf("%d pending learnings:\n\n", len(pending))
	for _, p := range pending {
		bold.Printf("%s", p.ID)
		faint.Printf("  [%s] %s scope\n", p.Category, p.SuggestedScope)
		fmt.Printf("  %s\n", p.Title)
		fmt.Printf("  %s\n", p.Content)
		if p.SessionSummary != "" {
			faint.Printf("  from: %s\n", models.Truncate(p.SessionSummary, 80))
		}
		fmt.Println()
	}
	fmt.Println("Accept with: recall learn accept <id>")
	return nil
}

func learnAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept one proposal into the knowledge store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flip, _ := cmd.Flags().GetBool("flip")

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			resp, err := wire.LearnService().Accept(cmdContext(), primary.AcceptRequest{
				ID:               args[0],
				WorkDir:          cwd,
				UseOppositeScope: flip,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Accepted %q into %s knowledge (%s)\n",
				resp.Title, resp.Scope, resp.Category)
			return nil
		},
	}

	cmd.Flags().Bool("flip", false, "Store in the opposite of the suggested scope")

	return cmd
}

func learnRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject and delete one proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.LearnService().Reject(cmdContext(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Rejected %s\n", args[0])
			return nil
		},
	}
}

func learnSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <id>",
		Short: "Leave one proposal in the queue for later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := wire.LearnService().ListPending(cmdContext())
			if err != nil {
				return err
			}
			for _, p := range pending {
				if p.ID == args[0] {
					fmt.Printf("Skipped %s; it stays in the queue.\n", args[0])
					return nil
				}
			}
			return fmt.Errorf("no pending learning with id %s", args[0])
		},
	}
}

func learnAcceptAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept-all",
		Short: "Accept every pending proposal with its suggested scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLearnAcceptAll()
		},
	}
}

func runLearnAcceptAll() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	results, err := wire.LearnService().AcceptAll(cmdContext(), cwd)
	for _, r := range results {
		fmt.Printf("Accepted %q into %s knowledge (%s)\n",
			r.Title, r.Scope, r.Category)
	}
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No pending learnings.")
	}
	return nil
}
