package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/recall/internal/core/sop"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/wire"
)

// SOPsCmd returns the sops command
func SOPsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sops",
		Short: "Manage standard operating procedures for known errors",
		Long: `Manage the layered SOP documents.

SOPs live in two scopes: a global document and an optional per-project
document. Project entries override global entries of the same name.

Examples:
  recall sops list
  recall sops show PERMISSION_DENIED
  recall sops match "bash: terraform: command not found"
  recall sops save DOCKER_DAEMON --description "Docker daemon not running" \
    --pattern "cannot connect to the docker daemon" \
    --fix "Start Docker Desktop or run: sudo systemctl start docker"
  recall sops init`,
	}

	cmd.AddCommand(sopsListCmd())
	cmd.AddCommand(sopsShowCmd())
	cmd.AddCommand(sopsMatchCmd())
	cmd.AddCommand(sopsSaveCmd())
	cmd.AddCommand(sopsInitCmd())

	return cmd
}

func sopsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the merged SOP set for this project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			set := wire.SOPService().Merged(cmdContext(), cwd)
			if set.Len() == 0 {
				fmt.Println("No SOPs defined. Run: recall sops init")
				return nil
			}

			bold := color.New(color.Bold)
			faint := color.New(color.Faint)

			for _, name := range set.Names() {
				entry, _ := set.Get(name)
				bold.Printf("%s", name)
				if entry.Description != "" {
					faint.Printf("  %s", entry.Description)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func sopsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one SOP in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			set := wire.SOPService().Merged(cmdContext(), cwd)
			entry, ok := set.Get(args[0])
			if !ok {
				return fmt.Errorf("no SOP named %q", args[0])
			}

			fmt.Println(sop.Format(args[0], entry))
			return nil
		},
	}
}

func sopsMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match [error-text]",
		Short: "Match error text against the SOP set",
		Long:  "Matches the given error text (or stdin when omitted) against the merged SOP set.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			name, entry, ok := wire.SOPService().Match(cmdContext(), cwd, text)
			if !ok {
				fmt.Println("No SOP matches.")
				return nil
			}

			fmt.Println(sop.Format(name, entry))
			return nil
		},
	}
}

func sopsSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save or update one SOP",
		Long: `Save or update one SOP in the global or project document.

Saving an existing name replaces that entry in place; every other
entry is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			description, _ := cmd.Flags().GetString("description")
			patterns, _ := cmd.Flags().GetStringArray("pattern")
			causes, _ := cmd.Flags().GetStringArray("cause")
			fixes, _ := cmd.Flags().GetStringArray("fix")
			project, _ := cmd.Flags().GetBool("project")

			scope := models.ScopeGlobal
			if project {
				scope = models.ScopeProject
			}

			req := primary.SaveSOPRequest{
				Name: args[0],
				SOP: sop.SOP{
					Description: description,
					Patterns:    patterns,
					Causes:      causes,
					Fixes:       fixes,
				},
				Scope:   scope,
				WorkDir: cwd,
			}
			if err := wire.SOPService().Save(cmdContext(), req); err != nil {
				return err
			}

			fmt.Printf("Saved SOP %s (%s scope)\n", args[0], scope)
			return nil
		},
	}

	cmd.Flags().String("description", "", "One-line description")
	cmd.Flags().StringArray("pattern", nil, "Error substring to match (repeatable)")
	cmd.Flags().StringArray("cause", nil, "Common cause (repeatable)")
	cmd.Flags().StringArray("fix", nil, "Fix step (repeatable)")
	cmd.Flags().Bool("project", false, "Save into the project document instead of the global one")

	return cmd
}

func sopsInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Provision the shipped default SOP set",
		Long:  "Writes the shipped SOP set to the global document. Does nothing when a document already exists.",
		RunE: func(cmd *cobra.Command, args []string) error {
			wrote, err := wire.SOPService().ProvisionDefaults(cmdContext())
			if err != nil {
				return err
			}
			if wrote {
				fmt.Println("Default SOPs provisioned.")
			} else {
				fmt.Println("SOP document already exists; nothing written.")
			}
			return nil
		},
	}
}
