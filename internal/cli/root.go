// Package cli wires the x100 command tree.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/logging"
	"github.com/x100-tools/x100/internal/workspace"
)

var (
	verbose   bool
	agentFlag string

	// loaded in PersistentPreRunE
	paths        config.Paths
	workspaceErr error
	log          *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "x100",
		Short: "x100 — project toolkit for AI coding agents",
		Long: "x100 manages prompt templates for AI coding agents, scaffolds project\n" +
			"structure, and analyzes project health to recommend next steps.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			log = logging.New(nil, level)

			workspaceErr = nil
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				var notWS *config.NotAWorkspaceError
				if !errors.As(err, &notWS) {
					return err
				}
				// Commands that need a workspace check workspaceErr before
				// running; init and version still work from a bare directory.
				workspaceErr = err
				wd, wdErr := os.Getwd()
				if wdErr != nil {
					return wdErr
				}
				paths = config.PathsAt(wd)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and detailed output")
	cmd.PersistentFlags().StringVar(&agentFlag, "agent", "", "agent tool for this run (default from config)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newCommandCmd())
	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newWorkflowEnableCmd())
	cmd.AddCommand(newNextstepCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newContributeCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// requireWorkspace returns the path resolution error for commands that cannot
// run outside a project.
func requireWorkspace() error {
	return workspaceErr
}

// selectedTool resolves the agent tool for this run: the --agent flag when
// given, otherwise the configured default.
func selectedTool() (domain.AgentTool, error) {
	key := agentFlag
	if key == "" {
		cfg, _ := config.Load(paths.Config)
		key = cfg.Agent()
	}
	return domain.LookupAgent(key)
}

// activeWorkspace builds the template workspace for the resolved project and
// agent tool.
func activeWorkspace() (*workspace.Workspace, error) {
	if err := requireWorkspace(); err != nil {
		return nil, err
	}
	tool, err := selectedTool()
	if err != nil {
		return nil, err
	}
	return workspace.New(paths, tool, log), nil
}

// Execute runs the root command, reporting any error on stderr.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
