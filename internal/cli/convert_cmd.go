package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/convert"
	"github.com/x100-tools/x100/internal/domain"
)

func newConvertCmd() *cobra.Command {
	var (
		aiName    string
		repo      string
		projectID int
		removeSrc bool
	)

	cmd := &cobra.Command{
		Use:   "convert <path>",
		Short: "Convert user story files into GitHub issues",
		Long: "Convert user story markdown files (US-<number>-<slug>.md) into GitHub\n" +
			"issues using an agent CLI to extract titles, bodies, and labels.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Works outside a workspace: the story path is explicit and the
			// agent defaults to the configured tool or claude.
			key := aiName
			if key == "" {
				key = agentFlag
			}
			if key == "" {
				cfg, _ := config.Load(paths.Config)
				key = cfg.Agent()
			}
			tool, err := domain.LookupAgent(key)
			if err != nil {
				return err
			}

			conv, err := convert.New(tool, os.Stdout, log)
			if err != nil {
				return err
			}
			results, err := conv.Convert(cmd.Context(), args[0], convert.Options{
				Repo:      repo,
				ProjectID: projectID,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return nil
			}

			convert.PrintResults(os.Stdout, results)
			if removeSrc {
				if n := convert.RemoveSources(os.Stdout, results); n > 0 {
					fmt.Printf("Removed %d converted story files\n", n)
				}
			}

			failed := 0
			for _, r := range results {
				if !r.Success {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d stories failed to convert", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&aiName, "ai", "", "agent CLI used to parse stories (default from config)")
	cmd.Flags().StringVar(&repo, "repo", "", "target repository (owner/repo, default: current repo)")
	cmd.Flags().IntVar(&projectID, "project", 0, "GitHub project number to link issues to")
	cmd.Flags().BoolVar(&removeSrc, "rm", false, "delete story files after successful conversion")

	return cmd
}
