package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/gitstats"
	"github.com/x100-tools/x100/internal/llm"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that required external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := selectedTool()
			if err != nil {
				return err
			}

			problems := 0
			check := func(name string, ok bool, remedy string) {
				state := "ok"
				if !ok {
					state = "missing"
					problems++
				}
				fmt.Printf("%-8s %s\n", name+":", state)
				if !ok && remedy != "" {
					fmt.Printf("  install: %s\n", remedy)
				}
			}

			check("git", gitstats.Installed(), "https://git-scm.com/downloads")
			check("gh", llm.CLIExists("gh"), "https://cli.github.com")

			if tool.RequiresCLI {
				install := tool.InstallURL
				if install == "" {
					install = "check agent documentation"
				}
				check(tool.CLI(), llm.CLIExists(tool.CLI()), install)
			} else {
				fmt.Printf("%-8s no CLI required\n", tool.Key+":")
			}

			// Config sanity, when run inside a workspace.
			if workspaceErr == nil {
				cfg, err := config.Load(paths.Config)
				switch {
				case err != nil:
					problems++
					fmt.Printf("%-8s %v\n", "config:", err)
				default:
					issues := config.Validate(&cfg)
					if len(issues) == 0 {
						fmt.Printf("%-8s ok\n", "config:")
						break
					}
					problems += len(issues)
					fmt.Printf("%-8s %d issues\n", "config:", len(issues))
					for _, issue := range issues {
						fmt.Printf("  - %s\n", issue)
					}
				}
			}

			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			fmt.Println("status: ok")
			return nil
		},
	}
}
