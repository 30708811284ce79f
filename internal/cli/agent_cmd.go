package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage subagent templates",
	}

	cmd.AddCommand(newAgentListCmd())
	cmd.AddCommand(newAgentEnableCmd())
	cmd.AddCommand(newAgentDisableCmd())
	return cmd
}

func newAgentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bundled agent templates and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := activeWorkspace()
			if err != nil {
				return err
			}
			items, err := ws.ListAgents()
			if err != nil {
				return err
			}
			fmt.Println("Available Agents")
			fmt.Println()
			printTemplates(items)
			return nil
		},
	}
}

func newAgentEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <name>",
		Short: "Copy an agent template into the agent folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := activeWorkspace()
			if err != nil {
				return err
			}
			dst, err := ws.EnableAgent(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ENABLED Agent: %s\n", args[0])
			fmt.Printf("  → %s\n", dst)
			return nil
		},
	}
}

func newAgentDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <name>",
		Short: "Remove an agent template from the agent folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := activeWorkspace()
			if err != nil {
				return err
			}
			if err := ws.DisableAgent(args[0]); err != nil {
				return err
			}
			fmt.Printf("DISABLED Agent: %s\n", args[0])
			return nil
		},
	}
}
