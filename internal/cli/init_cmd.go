package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/workspace"
)

func newInitCmd() *cobra.Command {
	var (
		name     string
		code     string
		backend  string
		frontend string
		initGit  bool
		noGit    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the project structure in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validChoice("backend", backend, "none", "python", "django"); err != nil {
				return err
			}
			if err := validChoice("frontend", frontend, "none", "nextjs"); err != nil {
				return err
			}

			// init always scaffolds the working directory, even when run
			// inside another project.
			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			tool, err := initTool(agentFlag)
			if err != nil {
				return err
			}

			ws := workspace.New(config.PathsAt(wd), tool, log)

			fmt.Println("Initializing Project Structure")
			fmt.Println()

			checks, err := ws.Init(cmd.Context(), workspace.InitOptions{
				Name:     name,
				Code:     code,
				Backend:  backend,
				Frontend: frontend,
				Agent:    agentFlag,
				InitGit:  initGit && !noGit,
			})
			if err != nil {
				return err
			}

			printChecks(checks)

			for _, c := range checks {
				if c.Status == workspace.StatusFailed {
					return errors.New("initialization completed with failures")
				}
			}
			fmt.Println("\nProject initialized.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (default: directory name)")
	cmd.Flags().StringVar(&code, "code", "", "project code slug (default: derived from name)")
	cmd.Flags().StringVar(&backend, "backend", "none", "backend framework: none, python or django")
	cmd.Flags().StringVar(&frontend, "frontend", "none", "frontend framework: none or nextjs")
	cmd.Flags().BoolVar(&initGit, "git", true, "initialize a git repository when missing")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git initialization")
	cmd.MarkFlagsMutuallyExclusive("git", "no-git")

	return cmd
}

// initTool picks the agent tool for init. The workspace does not exist yet,
// so the configured default cannot be read; fall back to the registry default.
func initTool(key string) (domain.AgentTool, error) {
	if key == "" {
		key = domain.DefaultAgentKey
	}
	return domain.LookupAgent(key)
}

func validChoice(flag, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid --%s %q (choose from %v)", flag, value, allowed)
}

// printChecks renders one status line per check in fixed columns.
func printChecks(checks []workspace.Check) {
	for _, c := range checks {
		fmt.Printf("%-8s %-12s %s\n", c.Status, c.Label, c.Detail)
	}
}
