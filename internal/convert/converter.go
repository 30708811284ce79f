// Package convert turns user story markdown files into GitHub issues.
//
// Stories named US-<number>-<slug>.md are sent to an agent CLI in batches,
// which returns one issue JSON object per file. Issues are then created with
// the gh CLI; labels are applied best-effort afterwards so a label missing
// from the repository cannot fail the creation itself.
package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/llm"
	"github.com/x100-tools/x100/internal/logging"
)

const (
	// batchSize is how many stories go into one agent prompt.
	batchSize = 10

	createTimeout  = 30 * time.Second
	labelTimeout   = 10 * time.Second
	projectTimeout = 30 * time.Second
)

var (
	storyPattern = regexp.MustCompile(`^US-\d+-[a-zA-Z0-9-]+\.md$`)
	ownerPattern = regexp.MustCompile(`github\.com/([^/]+)/`)
)

// IsStoryFile reports whether name matches the user story naming pattern.
func IsStoryFile(name string) bool {
	return storyPattern.MatchString(name)
}

// Result captures the outcome of converting one user story file.
type Result struct {
	File     string `json:"file"`
	Success  bool   `json:"success"`
	Issue    *Issue `json:"issue,omitempty"`
	IssueURL string `json:"issue_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Options control where created issues land.
type Options struct {
	// Repo is "owner/repo". Empty uses the repository of the working
	// directory, as gh does.
	Repo string

	// ProjectID links created issues to a GitHub project. Zero skips linking.
	ProjectID int
}

// Converter drives the story-to-issue pipeline for one agent tool.
type Converter struct {
	tool   domain.AgentTool
	client llm.Client
	run    func(ctx context.Context, name string, args ...string) (string, error)
	out    io.Writer
	log    *logging.Logger
}

// New builds a converter for the given agent tool. Both the agent CLI and gh
// must be installed; progress is written to out.
func New(tool domain.AgentTool, out io.Writer, log *logging.Logger) (*Converter, error) {
	if !llm.CLIExists(tool.CLI()) {
		install := tool.InstallURL
		if install == "" {
			install = "check agent documentation"
		}
		return nil, fmt.Errorf("%s CLI not found. Install from: %s", tool.Name, install)
	}
	if !llm.CLIExists("gh") {
		return nil, errors.New("gh CLI not found. Install from: https://cli.github.com")
	}

	client, err := llm.NewConversionClient(tool, log)
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = io.Discard
	}

	return &Converter{
		tool:   tool,
		client: client,
		run:    runCommand,
		out:    out,
		log:    log.Sub("convert"),
	}, nil
}

// Convert finds user story files under path, converts them to issue objects
// through the agent CLI in batches, and creates one GitHub issue per story.
// Per-file failures land in the results; only finding no files at all or an
// unreadable path is an error for the whole run.
func (c *Converter) Convert(ctx context.Context, path string, opts Options) ([]Result, error) {
	files, err := c.findStoryFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		fmt.Fprintln(c.out, "No user story files found matching pattern US-[number]-[slug].md")
		return nil, nil
	}

	fmt.Fprintf(c.out, "Found %d user story file(s) to convert\n\n", len(files))

	issues := make(map[string]Issue)
	failed := make(map[string]string)

	totalBatches := (len(files) + batchSize - 1) / batchSize
	for start := 0; start < len(files); start += batchSize {
		batch := files[start:min(start+batchSize, len(files))]
		num := start/batchSize + 1

		fmt.Fprintf(c.out, "Converting batch %d/%d (%d files) with %s...\n",
			num, totalBatches, len(batch), c.tool.Name)

		converted, err := c.convertBatch(ctx, batch)
		if err != nil {
			c.log.Warn().Err(err).Int("batch", num).Msg("batch conversion failed")
			for _, f := range batch {
				failed[f] = err.Error()
			}
			continue
		}
		for stem, issue := range converted {
			issues[stem] = issue
		}
	}

	var results []Result
	for _, f := range files {
		if msg, ok := failed[f]; ok {
			results = append(results, Result{File: f, Error: msg})
			continue
		}

		name := filepath.Base(f)
		issue, ok := issues[strings.TrimSuffix(name, ".md")]
		if !ok {
			results = append(results, Result{
				File:  f,
				Error: fmt.Sprintf("AI did not return data for %s", name),
			})
			continue
		}

		fmt.Fprintf(c.out, "Creating issue for %s...\n", name)

		url, err := c.createIssue(ctx, issue, opts)
		if err != nil {
			results = append(results, Result{File: f, Issue: &issue, Error: err.Error()})
			continue
		}
		results = append(results, Result{File: f, Success: true, Issue: &issue, IssueURL: url})
	}

	return results, nil
}

// findStoryFiles resolves path to the matching story files. A directory is
// scanned non-recursively; a single file that does not match the pattern
// yields a warning and no files.
func (c *Converter) findStoryFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if IsStoryFile(filepath.Base(path)) {
			return []string{path}, nil
		}
		fmt.Fprintf(c.out, "Warning: file %s does not match pattern US-[number]-[slug].md\n", filepath.Base(path))
		return nil, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsStoryFile(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// convertBatch sends one batch of story files through the agent CLI and
// parses the combined JSON response.
func (c *Converter) convertBatch(ctx context.Context, files []string) (map[string]Issue, error) {
	prompt, err := buildBatchPrompt(files)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("AI conversion failed: %w", err)
	}

	return parseBatchResponse(resp.Content)
}

// buildBatchPrompt assembles the schema instructions plus every story file,
// separated so the agent can key its response by filename.
func buildBatchPrompt(files []string) (string, error) {
	parts := []string{schemaPrompt()}
	parts = append(parts,
		"\nConvert the following user story files to JSON objects following the schema above.",
		"Return a JSON object where keys are filenames (without .md extension) and values are the converted issue objects.",
		"\nExample output format:",
		`{
  "US-001-example": { "title": "...", "body": "...", ... },`,
		`  "US-002-another": { "title": "...", "body": "...", ... }
}`,
		"\n---\n",
	)

	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", filepath.Base(f), err)
		}
		parts = append(parts,
			fmt.Sprintf("\n### FILE: %s\n", filepath.Base(f)),
			string(content),
			"\n---\n",
		)
	}

	return strings.Join(parts, "\n"), nil
}

// parseBatchResponse validates the agent output: a JSON object keyed by
// filename stem, each value an issue with at least title and body.
func parseBatchResponse(text string) (map[string]Issue, error) {
	cleaned := stripFence(text)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		if json.Valid([]byte(cleaned)) {
			return nil, errors.New("AI response is not a JSON object with filename keys")
		}
		return nil, fmt.Errorf("invalid JSON in AI response: %w", err)
	}

	issues := make(map[string]Issue, len(raw))
	for name, data := range raw {
		var issue Issue
		if err := json.Unmarshal(data, &issue); err != nil {
			return nil, fmt.Errorf("issue data for %s is not a JSON object", name)
		}
		if issue.Title == "" || issue.Body == "" {
			return nil, fmt.Errorf("issue for %s missing required fields (title, body)", name)
		}
		if issue.IssueType == "" {
			issue.IssueType = "Task"
		}
		issues[name] = issue
	}

	return issues, nil
}

// stripFence removes a surrounding markdown code fence, which agents add
// despite being told not to.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// createIssue runs gh issue create and returns the issue URL from its output.
func (c *Converter) createIssue(ctx context.Context, issue Issue, opts Options) (string, error) {
	args := []string{"issue", "create"}
	if opts.Repo != "" {
		args = append(args, "--repo", opts.Repo)
	}
	args = append(args, "--title", issue.Title, "--body", issue.Body)
	for _, assignee := range issue.Assignees {
		args = append(args, "--assignee", assignee)
	}
	if issue.Milestone != 0 {
		args = append(args, "--milestone", strconv.Itoa(issue.Milestone))
	}

	cctx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()

	out, err := c.run(cctx, "gh", args...)
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("GitHub issue creation timed out (%ds)", int(createTimeout.Seconds()))
		}
		return "", fmt.Errorf("failed to create issue: %s", err)
	}

	url := strings.TrimSpace(out)

	if len(issue.Labels) > 0 && url != "" {
		c.addLabels(ctx, url, issue.Labels, opts.Repo)
	}
	if opts.ProjectID != 0 && url != "" {
		c.linkProject(ctx, url, opts)
	}

	return url, nil
}

// addLabels applies labels one by one after creation, ignoring failures for
// labels the repository does not have.
func (c *Converter) addLabels(ctx context.Context, issueURL string, labels []string, repo string) {
	num := issueNumber(issueURL)
	for _, label := range labels {
		args := []string{"issue", "edit", num, "--add-label", label}
		if repo != "" {
			args = append(args, "--repo", repo)
		}

		lctx, cancel := context.WithTimeout(ctx, labelTimeout)
		if _, err := c.run(lctx, "gh", args...); err != nil {
			c.log.Debug().Err(err).Str("label", label).Msg("label not added")
		}
		cancel()
	}
}

// linkProject adds the issue to a GitHub project. The owner comes from the
// configured repo or, failing that, from the issue URL.
func (c *Converter) linkProject(ctx context.Context, issueURL string, opts Options) {
	owner := ""
	if opts.Repo != "" {
		owner = strings.SplitN(opts.Repo, "/", 2)[0]
	} else if m := ownerPattern.FindStringSubmatch(issueURL); m != nil {
		owner = m[1]
	}

	args := []string{"project", "item-add", strconv.Itoa(opts.ProjectID), "--url", issueURL}
	if owner != "" {
		args = append(args, "--owner", owner)
	}

	pctx, cancel := context.WithTimeout(ctx, projectTimeout)
	defer cancel()

	if _, err := c.run(pctx, "gh", args...); err != nil {
		fmt.Fprintf(c.out, "Warning: created issue but failed to link to project: %s\n", err)
	}
}

func issueNumber(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// runCommand executes a CLI and returns its stdout. On a non-zero exit the
// error carries stderr, falling back to stdout when stderr is empty.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(string(exitErr.Stderr))
			if msg == "" {
				msg = strings.TrimSpace(string(out))
			}
			if msg == "" {
				msg = "unknown error"
			}
			return "", errors.New(msg)
		}
		return "", err
	}
	return string(out), nil
}
