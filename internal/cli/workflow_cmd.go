package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/domain"
)

func newWorkflowEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workflow-enable",
		Short: "Enable the complete workflow command and agent set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := activeWorkspace()
			if err != nil {
				return err
			}

			fmt.Println("Enabling Workflow Automation")
			fmt.Println()

			results := ws.EnableWorkflow()

			failed := 0
			fmt.Println("Enabling workflow commands:")
			for _, r := range results {
				if r.Kind != domain.KindCommand {
					continue
				}
				if r.Err != nil {
					failed++
					fmt.Printf("  ✗ /%s (%v)\n", r.Name, r.Err)
					continue
				}
				fmt.Printf("  ✓ /%s\n", r.Name)
			}

			fmt.Println("\nEnabling workflow agents:")
			for _, r := range results {
				if r.Kind != domain.KindAgent {
					continue
				}
				if r.Err != nil {
					failed++
					fmt.Printf("  ✗ %s (%v)\n", r.Name, r.Err)
					continue
				}
				fmt.Printf("  ✓ %s\n", r.Name)
			}

			if failed > 0 {
				return fmt.Errorf("%d workflow item(s) could not be enabled", failed)
			}

			fmt.Println("\nWorkflow automation enabled!")
			fmt.Println("\nYou can now use:")
			fmt.Println("  /start   - Start feature development")
			fmt.Println("  /spec    - Create technical spec")
			fmt.Println("  /code    - Implement code")
			fmt.Println("  /review  - Review code")
			fmt.Println("  /test    - Create and run tests")
			fmt.Println("  /done    - Complete feature")
			fmt.Println("  /workflow - Run complete workflow")
			return nil
		},
	}
}
