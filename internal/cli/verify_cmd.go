package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/workspace"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the project environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Runs without a workspace on purpose: the failing checks are
			// the answer.
			tool, err := selectedTool()
			if err != nil {
				return err
			}
			ws := workspace.New(paths, tool, log)

			fmt.Println("Verification Results")
			fmt.Println()

			checks := ws.Verify()
			printChecks(checks)

			if !workspace.AllOK(checks) {
				return errors.New("some checks failed")
			}
			fmt.Println("\nAll checks passed.")
			return nil
		},
	}
}
