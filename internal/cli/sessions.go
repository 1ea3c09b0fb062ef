package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/wire"
)

// SessionsCmd returns the sessions command
func SessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and inspect indexed sessions",
		Long: `List and inspect indexed sessions for the current project.

Examples:
  recall sessions                  # recent sessions
  recall sessions --limit 20
  recall sessions sqlite           # sessions and failures matching a term
  recall sessions show <id>        # full details for one session
  recall sessions last             # previous session details
  recall sessions index            # index the newest transcript now`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runSessionsSearch(args[0])
			}
			limit, _ := cmd.Flags().GetInt("limit")
			return runSessionsList(limit)
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum sessions to list")

	cmd.AddCommand(sessionsSearchCmd())
	cmd.AddCommand(sessionsShowCmd())
	cmd.AddCommand(sessionsLastCmd())
	cmd.AddCommand(sessionsIndexCmd())

	return cmd
}

func runSessionsList(limit int) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	sessions, err := wire.SessionService().ListSessions(cmdContext(), cwd, limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions indexed yet for this project.")
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	for _, s := range sessions {
		bold.Printf("%s", shortID(s.SessionID))
		faint.Printf("  %s", s.Date.Format("2006-01-02 15:04"))
		if s.NeedsAnalysis {
			color.New(color.FgYellow).Printf("  [complex]")
		}
		fmt.Println()

		summary := s.Summary
		if summary == "" {
			summary = "(no summary)"
		}
		fmt.Printf("  %s\n", summary)
		faint.Printf("  %d messages, %d commands, %d failures, %d skills\n",
			s.MessageCount, s.CommandCount, s.FailureCount, s.SkillCount)
		if len(s.Topics) > 0 {
			faint.Printf("  topics: %s\n", strings.Join(s.Topics, ", "))
		}
		fmt.Println()
	}
	return nil
}

func sessionsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search sessions and failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsSearch(args[0])
		},
	}
}

func runSessionsSearch(term string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	result, err := wire.SessionService().SearchSessions(cmdContext(), cwd, term)
	if err != nil {
		return err
	}

	printSearchResult(result)
	return nil
}

func printSearchResult(result *primary.SearchResult) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	if len(result.Sessions) == 0 && len(result.Failures) == 0 {
		fmt.Printf("No matches for %q.\n", result.Term)
		return
	}

	if len(result.Sessions) > 0 {
		bold.Printf("Sessions matching %q:\n", result.Term)
		for _, s := range result.Sessions {
			summary := s.Summary
			if summary == "" {
				summary = "(no summary)"
			}
			fmt.Printf("  %s  %s  %s\n",
				shortID(s.SessionID), s.Date.Format("2006-01-02"), summary)
		}
		fmt.Println()
	}

	if len(result.Failures) > 0 {
		bold.Printf("Failures matching %q:\n", result.Term)
		for _, f := range result.Failures {
			fmt.Printf("  [%s] %s", f.Category, models.Truncate(f.Command, 70))
			if f.Count > 1 {
				faint.Printf(" (%dx)", f.Count)
			}
			fmt.Println()
		}
	}
}

func sessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show full details for one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			details, err := wire.SessionService().GetSession(cmdContext(), cwd, args[0])
			if err != nil {
				return err
			}

			printSessionDetails(details)
			return nil
		},
	}
}

func sessionsLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the previous session's details",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			details, err := wire.SessionService().LastSession(cmdContext(), cwd)
			if err != nil {
				return err
			}

			printSessionDetails(details)
			return nil
		},
	}
}

func sessionsIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index the newest transcript for this project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			resp, err := wire.SessionService().IndexSession(cmdContext(),
				primary.IndexSessionRequest{WorkDir: cwd})
			if err != nil {
				return err
			}

			fmt.Printf("Indexed session %s: %d messages, %d commands, %d failures, %d skills\n",
				resp.SessionID, resp.MessageCount, resp.CommandCount,
				resp.FailureCount, resp.SkillCount)
			if resp.ProposalCount > 0 {
				fmt.Printf("%d new learning proposals queued (recall learn)\n", resp.ProposalCount)
			}
			if resp.NeedsAnalysis {
				color.New(color.FgYellow).Println("Session flagged as complex; worth a deeper review.")
			}
			return nil
		},
	}
}

func printSessionDetails(d *models.SessionDetails) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Printf("Session %s", d.SessionID)
	faint.Printf("  %s\n", d.Date.Format("2006-01-02 15:04"))
	if d.Summary != "" {
		fmt.Printf("%s\n", d.Summary)
	}
	if len(d.Topics) > 0 {
		faint.Printf("topics: %s\n", strings.Join(d.Topics, ", "))
	}

	if len(d.UserMessages) > 0 {
		bold.Println("\nUser messages:")
		for _, m := range d.UserMessages {
			fmt.Printf("  %s\n", m.Content)
		}
	}

	if len(d.Commands) > 0 {
		bold.Println("\nCommands:")
		for _, c := range d.Commands {
			fmt.Printf("  %s\n", c.Command)
		}
	}

	if len(d.Failures) > 0 {
		bold.Println("\nFailures:")
		for _, f := range d.Failures {
			color.New(color.FgRed).Printf("  [%s] ", f.Category)
			fmt.Printf("%s\n", f.Command)
			if f.Error != "" {
				faint.Printf("    %s\n", f.Error)
			}
		}
	}

	if len(d.Resolutions) > 0 {
		bold.Println("\nResolved failures:")
		for _, r := range d.Resolutions {
			fmt.Printf("  [%s] %s", r.Category, r.Command)
			if r.FailureCount > 1 {
				faint.Printf(" (%d attempts)", r.FailureCount)
			}
			fmt.Println()
			faint.Printf("    fixed by: %s\n", r.ResolvedBy)
		}
	}

	if len(d.SkillsUsed) > 0 {
		bold.Println("\nSkills used:")
		for _, s := range d.SkillsUsed {
			fmt.Printf("  %s\n", s.Skill)
		}
	}
}

// shortID trims UUID-style session ids for listing.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
