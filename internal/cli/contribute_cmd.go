package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/fsutil"
)

func newContributeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contribute",
		Short: "Run the project contribution workflow",
		Long: "Run scripts/contribute.sh from the project root. The script drives the\n" +
			"branch, commit, and pull request flow for the current change.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWorkspace(); err != nil {
				return err
			}

			script := filepath.Join(paths.Root, "scripts", "contribute.sh")
			if !fsutil.FileExists(script) {
				return fmt.Errorf("contribute script not found: %s", script)
			}

			c := exec.CommandContext(cmd.Context(), "bash", script)
			c.Dir = paths.Root
			c.Stdin = os.Stdin
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			return c.Run()
		},
	}
}
