package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/domain"
)

func newCommandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "command",
		Short: "Manage slash-command templates",
	}

	cmd.AddCommand(newCommandListCmd())
	cmd.AddCommand(newCommandEnableCmd())
	cmd.AddCommand(newCommandDisableCmd())
	return cmd
}

func newCommandListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bundled command templates and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := activeWorkspace()
			if err != nil {
				return err
			}
			items, err := ws.ListCommands()
			if err != nil {
				return err
			}
			fmt.Println("Available Commands")
			fmt.Println()
			printTemplates(items)
			return nil
		},
	}
}

func newCommandEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <name>",
		Short: "Copy a command template into the agent folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := activeWorkspace()
			if err != nil {
				return err
			}
			dst, err := ws.EnableCommand(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ENABLED Command: /%s\n", args[0])
			fmt.Printf("  → %s\n", dst)
			return nil
		},
	}
}

func newCommandDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <name>",
		Short: "Remove a command template from the agent folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := activeWorkspace()
			if err != nil {
				return err
			}
			if err := ws.DisableCommand(args[0]); err != nil {
				return err
			}
			fmt.Printf("DISABLED Command: /%s\n", args[0])
			return nil
		},
	}
}

// printTemplates renders one template per line with its active state, with
// the description indented underneath.
func printTemplates(items []domain.Template) {
	for _, t := range items {
		label := "[available]"
		if t.Status == domain.StatusActive {
			label = "[ACTIVE]"
		}
		fmt.Printf("  %-11s %s\n", label, t.Name)
		if t.Description != "" {
			fmt.Printf("      %s\n", t.Description)
		}
	}
}
