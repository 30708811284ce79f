// Package gitstats reads repository activity by shelling out to git. A
// missing repository or a failing git binary degrades to a zero-value
// report, never an error: analysis runs on whatever is available.
package gitstats

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/x100-tools/x100/internal/logging"
)

// commandTimeout bounds each git invocation.
const commandTimeout = 10 * time.Second

// Report summarizes repository activity.
type Report struct {
	Commits7d         int       `json:"commit_count_7d"`
	Commits30d        int       `json:"commit_count_30d"`
	ActiveBranches    int       `json:"active_branches"`
	Contributors      int       `json:"contributors"`
	LastCommitAt      time.Time `json:"last_commit_date,omitempty"`
	LastCommitMessage string    `json:"last_commit_message,omitempty"`
	CommitsPerDay     float64   `json:"commits_per_day"`
	IsRepo            bool      `json:"is_git_repo"`
}

// Runner executes git with args inside dir and returns trimmed stdout.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// Analyzer reads activity stats for one repository directory.
type Analyzer struct {
	dir string
	run Runner
	now func() time.Time
	log *logging.Logger
}

// New returns an Analyzer for the repository at dir.
func New(dir string, log *logging.Logger) *Analyzer {
	return &Analyzer{
		dir: dir,
		run: execGit,
		now: time.Now,
		log: log.Sub("gitstats"),
	}
}

// Analyze collects the activity report. Individual git failures leave their
// field at zero.
func (a *Analyzer) Analyze(ctx context.Context) Report {
	if !isRepo(a.dir) {
		return Report{}
	}

	report := Report{IsRepo: true}
	report.Commits7d = a.countCommitsSince(ctx, 7)
	report.Commits30d = a.countCommitsSince(ctx, 30)
	report.ActiveBranches = a.countLines(ctx, "branch", "-a")
	report.Contributors = a.countLines(ctx, "shortlog", "-s", "-n", "HEAD")

	if out, err := a.git(ctx, "log", "-1", "--format=%ct"); err == nil {
		if ts, convErr := strconv.ParseInt(out, 10, 64); convErr == nil {
			report.LastCommitAt = time.Unix(ts, 0)
		}
	}
	if out, err := a.git(ctx, "log", "-1", "--format=%s"); err == nil {
		report.LastCommitMessage = out
	}

	if report.Commits7d > 0 {
		report.CommitsPerDay = math.Round(float64(report.Commits7d)/7.0*10) / 10
	}
	return report
}

func (a *Analyzer) countCommitsSince(ctx context.Context, days int) int {
	since := a.now().AddDate(0, 0, -days).Format("2006-01-02")
	out, err := a.git(ctx, "rev-list", "--count", "--since", since, "HEAD")
	if err != nil {
		return 0
	}
	n, convErr := strconv.Atoi(out)
	if convErr != nil {
		return 0
	}
	return n
}

func (a *Analyzer) countLines(ctx context.Context, args ...string) int {
	out, err := a.git(ctx, args...)
	if err != nil || out == "" {
		return 0
	}
	count := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func (a *Analyzer) git(ctx context.Context, args ...string) (string, error) {
	out, err := a.run(ctx, a.dir, args...)
	if err != nil {
		a.log.Debug().Err(err).Strs("args", args).Msg("git command failed")
		return "", err
	}
	return out, nil
}

// isRepo checks for .git, which is a directory in a checkout and a file in a
// worktree.
func isRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Installed reports whether git is on PATH.
func Installed() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s exited %d: %s", args[0], exitErr.ExitCode(), bytes.TrimSpace(exitErr.Stderr))
		}
		return "", fmt.Errorf("git: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
