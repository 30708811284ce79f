// Package nextstep orchestrates the project analysis pipeline: code, git,
// test, story, and documentation scans, the optional GitHub and AI layers on
// top, and the report formatters. Every source is best-effort; a missing
// tool or credential degrades that layer and the run still completes.
package nextstep

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/github"
	"github.com/x100-tools/x100/internal/gitstats"
	"github.com/x100-tools/x100/internal/health"
	"github.com/x100-tools/x100/internal/llm"
	"github.com/x100-tools/x100/internal/logging"
	"github.com/x100-tools/x100/internal/scan"
	"github.com/x100-tools/x100/internal/store"
)

// ruleBasedNotice is the analysis text shown when no AI CLI is installed.
const ruleBasedNotice = "Using rule-based analysis (AI CLI not available)"

// Options tune one analysis run.
type Options struct {
	UseAI bool   // ask the configured agent CLI for insights
	Token string // GitHub token override; empty falls back to the token env
}

// Result bundles everything the formatters and the CLI display need.
type Result struct {
	GeneratedAt time.Time
	Agent       string // provider that produced RawAnalysis, empty when none ran
	Recs        health.Recommendations
	Code        scan.CodeReport
	Git         gitstats.Report
	Tests       scan.TestReport
	Stories     []scan.StoryStatus
	Docs        scan.DocsReport
	Project     *github.ProjectStatus
}

// Runner drives the analysis pipeline for one project.
type Runner struct {
	paths    config.Paths
	cfg      *config.NextstepConfig
	registry *llm.Registry
	history  store.HistoryStore
	out      io.Writer
	project  func(ctx context.Context, token string) (*github.ProjectStatus, error)
	now      func() time.Time
	log      *logging.Logger
}

// NewRunner wires a pipeline. The registry may be empty and history may be
// nil; both layers are skipped then. Progress lines go to out, which the CLI
// points at stderr so piped report output stays clean.
func NewRunner(paths config.Paths, cfg *config.NextstepConfig, registry *llm.Registry, history store.HistoryStore, out io.Writer, log *logging.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	r := &Runner{
		paths:    paths,
		cfg:      cfg,
		registry: registry,
		history:  history,
		out:      out,
		now:      time.Now,
		log:      log.Sub("nextstep"),
	}
	r.project = r.fetchGitHub
	return r
}

// Run executes the pipeline. It cannot fail as a whole: sources that error
// are logged and skipped, and the rule engine always produces a report.
func (r *Runner) Run(ctx context.Context, opts Options) *Result {
	root := r.paths.Root

	fmt.Fprintln(r.out, "📊 Analyzing codebase...")
	code := scan.Codebase(root)

	fmt.Fprintln(r.out, "📝 Analyzing git history...")
	git := gitstats.New(root, r.log).Analyze(ctx)

	fmt.Fprintln(r.out, "🧪 Analyzing tests...")
	tests := scan.Tests(root)

	fmt.Fprintln(r.out, "📖 Analyzing user stories...")
	stories := scan.Stories(root)

	fmt.Fprintln(r.out, "📚 Analyzing documentation...")
	docs := scan.Docs(root)

	project := r.projectStatus(ctx, opts.Token)

	recs := health.Evaluate(health.Inputs{
		Code:    code,
		Git:     git,
		Tests:   tests,
		Project: project,
	}, r.cfg)

	res := &Result{
		GeneratedAt: r.now(),
		Recs:        recs,
		Code:        code,
		Git:         git,
		Tests:       tests,
		Stories:     stories,
		Docs:        docs,
		Project:     project,
	}

	if opts.UseAI {
		fmt.Fprintln(r.out, "🤖 Generating recommendations...")
		res.Agent, res.Recs.RawAnalysis = r.aiAnalysis(ctx, res)
	} else {
		fmt.Fprintln(r.out, "📊 Analyzing (rule-based)...")
	}

	r.record(res)
	return res
}

// projectStatus fetches the GitHub picture when the integration is enabled
// and a token is available. Any failure degrades to local-only analysis.
func (r *Runner) projectStatus(ctx context.Context, token string) *github.ProjectStatus {
	gh := r.cfg.GitHub
	if !gh.Enabled || gh.Repo == "" {
		return nil
	}

	fmt.Fprintln(r.out, "📋 Fetching GitHub status...")
	if token == "" {
		token = github.TokenFromEnv(gh.TokenEnv)
	}
	if token == "" {
		fmt.Fprintf(r.out, "Warning: GitHub token not found (set %s)\n", gh.TokenEnv)
		return nil
	}

	status, err := r.project(ctx, token)
	if err != nil {
		fmt.Fprintf(r.out, "Warning: GitHub integration failed: %s\n", err)
		r.log.Warn().Err(err).Str("repo", gh.Repo).Msg("github integration failed")
		return nil
	}
	return status
}

func (r *Runner) fetchGitHub(ctx context.Context, token string) (*github.ProjectStatus, error) {
	client := github.New(token, r.cfg.GitHub.Repo, r.log)
	return client.ProjectStatus(ctx, r.cfg.Analysis.StaleIssueDays, r.cfg.Analysis.StalePRDays)
}

// aiAnalysis asks the configured agent for insights on top of the rule
// engine's report. CLI errors become an "Error:" analysis text rather than
// failing the run, and a missing CLI yields the rule-based notice.
func (r *Runner) aiAnalysis(ctx context.Context, res *Result) (agent, raw string) {
	client, err := r.registry.Resolve(r.cfg.DefaultAIAgent)
	if err != nil {
		r.log.Debug().Str("agent", r.cfg.DefaultAIAgent).Msg("no analysis provider installed")
		return "", ruleBasedNotice
	}

	prompt, err := buildPrompt(res)
	if err != nil {
		r.log.Warn().Err(err).Msg("building analysis prompt failed")
		return client.Name(), "Error: " + err.Error()
	}

	resp, err := client.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		r.log.Warn().Err(err).Str("provider", client.Name()).Msg("ai analysis failed")
		return client.Name(), "Error: " + err.Error()
	}
	return client.Name(), resp.Content
}

// record stores a history snapshot. Failures only warn; analysis output is
// worth more than its archive.
func (r *Runner) record(res *Result) {
	if r.history == nil {
		return
	}

	snap := store.Snapshot{
		CreatedAt: res.GeneratedAt,
		Overall:   res.Recs.Health.Overall,
		Velocity:  res.Recs.Health.Velocity,
		Quality:   res.Recs.Health.Quality,
		Blockers:  res.Recs.Health.Blockers,
		Activity:  res.Recs.Health.Activity,
		Summary:   res.Recs.Health.Summary,
		Files:     res.Code.FileCount,
		Lines:     res.Code.LineCount,
		Todos:     len(res.Code.Todos),
		Fixmes:    len(res.Code.Fixmes),
		Commits7d: res.Git.Commits7d,
	}
	if _, err := r.history.Record(snap); err != nil {
		r.log.Warn().Err(err).Msg("recording history snapshot failed")
	}
}
