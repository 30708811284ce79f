package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/health"
	"github.com/x100-tools/x100/internal/llm"
	"github.com/x100-tools/x100/internal/nextstep"
	"github.com/x100-tools/x100/internal/store"
)

func newNextstepCmd() *cobra.Command {
	var (
		aiName      string
		noAI        bool
		format      string
		save        bool
		output      string
		githubRepo  string
		githubToken string
	)

	cmd := &cobra.Command{
		Use:   "nextstep",
		Short: "Analyze project health and suggest next steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWorkspace(); err != nil {
				return err
			}
			if format != "" && format != nextstep.FormatMarkdown && format != nextstep.FormatJSON {
				return fmt.Errorf("unknown format %q (markdown or json)", format)
			}

			cfg, _ := config.Load(paths.Config)
			nsCfg, err := config.LoadNextstep(paths.Nextstep, cfg.Agent())
			if err != nil {
				log.Warn().Err(err).Msg("nextstep config unreadable, using defaults")
			}
			if agentFlag != "" {
				nsCfg.DefaultAIAgent = agentFlag
			}
			if aiName != "" {
				nsCfg.DefaultAIAgent = aiName
			}
			if githubRepo != "" {
				nsCfg.GitHub.Enabled = true
				nsCfg.GitHub.Repo = githubRepo
			}

			history := openHistory()
			defer history.Close()

			// Progress goes to stderr so piped report output stays clean.
			runner := nextstep.NewRunner(paths, &nsCfg, llm.NewRegistryFromTools(log), history, os.Stderr, log)
			res := runner.Run(cmd.Context(), nextstep.Options{
				UseAI: !noAI,
				Token: githubToken,
			})
			fmt.Fprintln(os.Stderr)

			var content string
			switch format {
			case nextstep.FormatJSON:
				content, err = nextstep.JSON(res, verbose)
				if err != nil {
					return err
				}
				if !save {
					fmt.Println(content)
				}
			case nextstep.FormatMarkdown:
				content = nextstep.Markdown(res, verbose)
				if !save {
					fmt.Println(content)
				}
			default:
				displayReport(os.Stdout, res, verbose, nsCfg.GitHub.Enabled && nsCfg.GitHub.Repo != "")
				if save {
					content = nextstep.Markdown(res, verbose)
				}
			}

			if !save {
				return nil
			}
			saveFormat := format
			if saveFormat == "" {
				saveFormat = nextstep.FormatMarkdown
			}
			path := output
			if path == "" {
				path, err = nextstep.SaveReport(paths.Reports, content, saveFormat, res.GeneratedAt)
			} else {
				err = nextstep.SaveReportTo(path, content)
			}
			if err != nil {
				return err
			}
			fmt.Printf("\n✓ Report saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&aiName, "ai", "", "AI provider for analysis (default from config)")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "use only rule-based analysis")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: markdown or json")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "save the report to a file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "report file path (default: .x100/reports/nextstep_report_TIMESTAMP)")
	cmd.Flags().StringVar(&githubRepo, "github-repo", "", "GitHub repository (owner/repo)")
	cmd.Flags().StringVar(&githubToken, "github-token", "", "GitHub token (default: GITHUB_TOKEN env)")

	return cmd
}

// openHistory returns the SQLite-backed snapshot store, degrading to a
// throwaway in-memory store when the database cannot be opened.
func openHistory() store.HistoryStore {
	db, err := store.Open(paths.HistoryDB, log)
	if err != nil {
		log.Warn().Err(err).Msg("history database unavailable, snapshots will not persist")
		return store.NewMemoryHistoryStore()
	}
	return store.NewSQLiteHistoryStore(db)
}

// displayReport renders the analysis in terminal form, the default when no
// --format is given.
func displayReport(w io.Writer, res *nextstep.Result, verbose, githubConfigured bool) {
	if res.Agent != "" {
		name := res.Agent
		if tool, err := domain.LookupAgent(res.Agent); err == nil {
			name = tool.Name
		}
		fmt.Fprintf(w, "Analysis by: %s\n\n", name)
		if res.Recs.RawAnalysis != "" {
			fmt.Fprintf(w, "🤖 AI Insights\n\n%s\n\n", res.Recs.RawAnalysis)
		}
	} else if res.Recs.RawAnalysis != "" {
		fmt.Fprintf(w, "%s\n\n", res.Recs.RawAnalysis)
	}

	h := res.Recs.Health
	emoji := "🔴"
	switch {
	case h.Overall >= 80:
		emoji = "🎉"
	case h.Overall >= 70:
		emoji = "✅"
	case h.Overall >= 60:
		emoji = "⚠️"
	}
	fmt.Fprintf(w, "%s Project Health\n", emoji)
	fmt.Fprintf(w, "%d/100 - %s\n\n", h.Overall, h.Summary)
	fmt.Fprintf(w, "  • Velocity: %d/100\n", h.Velocity)
	fmt.Fprintf(w, "  • Quality: %d/100\n", h.Quality)
	fmt.Fprintf(w, "  • Blockers: %d/100\n", h.Blockers)
	fmt.Fprintf(w, "  • Activity: %d/100\n", h.Activity)
	fmt.Fprintln(w)

	if verbose {
		displayStatistics(w, res)
	}

	if len(res.Recs.Blockers) > 0 {
		fmt.Fprintf(w, "🔴 Blockers & Risks\n\n")
		for _, b := range res.Recs.Blockers {
			fmt.Fprintf(w, "  • %s\n", b.Title)
			fmt.Fprintf(w, "    Impact: %s\n", b.Impact)
			if verbose && b.Details != "" {
				fmt.Fprintf(w, "    %s\n", b.Details)
			}
		}
		fmt.Fprintln(w)
	}

	if len(res.Recs.Gaps) > 0 {
		fmt.Fprintf(w, "🔍 Gaps Detected\n\n")
		for _, g := range res.Recs.Gaps {
			fmt.Fprintf(w, "  ⚠  %s: %s\n", g.Category, g.Description)
		}
		fmt.Fprintln(w)
	}

	if len(res.Recs.NextSteps) > 0 {
		fmt.Fprintf(w, "💡 Recommended Next Steps\n\n")
		for _, priority := range []string{health.PriorityNow, health.PriorityThisWeek, health.PriorityNextSprint} {
			steps := nextstep.StepsFor(res.Recs.NextSteps, priority)
			if len(steps) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s %s:\n", nextstep.PriorityIcon(priority), priority)
			for _, s := range steps {
				fmt.Fprintf(w, "\n  %d. %s\n", s.Order, s.Action)
				fmt.Fprintf(w, "     • Rationale: %s\n", s.Rationale)
				fmt.Fprintf(w, "     • Impact: %s\n", s.Impact)
				fmt.Fprintf(w, "     • Effort: %s\n", s.Effort)
			}
			fmt.Fprintln(w)
		}
	}

	if !githubConfigured && !verbose {
		fmt.Fprintln(w, "Tip: Run with --verbose for detailed statistics")
		fmt.Fprintln(w, "Tip: Add --github-repo owner/repo --github-token $GITHUB_TOKEN for GitHub integration")
	}
}

// displayStatistics renders the verbose statistics block.
func displayStatistics(w io.Writer, res *nextstep.Result) {
	row := func(label, value string) {
		fmt.Fprintf(w, "  %-18s %s\n", label, value)
	}

	fmt.Fprintf(w, "📊 Detailed Statistics\n\n")
	row("Files", strconv.Itoa(res.Code.FileCount))
	row("Lines of Code", nextstep.GroupDigits(res.Code.LineCount))
	row("Python Files", strconv.Itoa(res.Code.PythonFiles))
	row("JavaScript Files", strconv.Itoa(res.Code.JavaScriptFiles))
	row("TODO Markers", strconv.Itoa(len(res.Code.Todos)))
	row("FIXME Markers", strconv.Itoa(len(res.Code.Fixmes)))
	if c := res.Tests.Coverage; c != nil && *c != 0 {
		row("Test Coverage", strconv.FormatFloat(*c, 'f', -1, 64)+"%")
	}
	row("Test Files", strconv.Itoa(res.Tests.TestCount))
	if res.Git.IsRepo {
		row("Commits (7d)", strconv.Itoa(res.Git.Commits7d))
		row("Commits (30d)", strconv.Itoa(res.Git.Commits30d))
		row("Commits/Day", strconv.FormatFloat(res.Git.CommitsPerDay, 'f', -1, 64))
	}
	fmt.Fprintln(w)
}
