// Package github is a read-only client for the GitHub REST API used by the
// nextstep analysis. It fetches open issues and pull requests and classifies
// them as blocked or stale; any failure is returned to the caller, which logs
// it and continues with local-only data.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/x100-tools/x100/internal/logging"
)

const requestTimeout = 30 * time.Second

// IssueInfo describes one open issue.
type IssueInfo struct {
	Number         int      `json:"number"`
	Title          string   `json:"title"`
	State          string   `json:"state"`
	CreatedDaysAgo int      `json:"created_days_ago"`
	Labels         []string `json:"labels"`
	IsBlocked      bool     `json:"is_blocked"`
}

// ProjectStatus is the issue and PR picture for one repository.
type ProjectStatus struct {
	OpenIssues    []IssueInfo `json:"open_issues"`
	BlockedIssues []IssueInfo `json:"blocked_issues"`
	StaleIssues   []IssueInfo `json:"stale_issues"`
	OpenPRCount   int         `json:"open_pr_count"`
	StalePRCount  int         `json:"stale_pr_count"`
}

// TokenFromEnv reads the API token from the named environment variable,
// defaulting to GITHUB_TOKEN. The token itself is never stored in config.
func TokenFromEnv(envName string) string {
	if envName == "" {
		envName = "GITHUB_TOKEN"
	}
	return os.Getenv(envName)
}

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	repo    string
	baseURL string
	http    *http.Client
	now     func() time.Time
	log     *logging.Logger
}

// New creates a client for the given "owner/name" repository. An empty token
// means unauthenticated requests, which GitHub rate-limits aggressively but
// still serves for public repositories.
func New(token, repo string, log *logging.Logger) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = requestTimeout
	}
	return &Client{
		repo:    repo,
		baseURL: "https://api.github.com",
		http:    httpClient,
		now:     time.Now,
		log:     log.Sub("github"),
	}
}

// ProjectStatus fetches open issues and pull requests and classifies them.
// Blocked means a "blocked" or "blocker" label; stale means older than the
// given thresholds in days.
func (c *Client) ProjectStatus(ctx context.Context, staleIssueDays, stalePRDays int) (*ProjectStatus, error) {
	var rawIssues []apiIssue
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues?state=open&per_page=100", c.repo), &rawIssues); err != nil {
		return nil, err
	}

	var rawPulls []apiPull
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/pulls?state=open&per_page=100", c.repo), &rawPulls); err != nil {
		return nil, err
	}

	now := c.now()
	status := &ProjectStatus{}

	for _, raw := range rawIssues {
		// The issues endpoint returns PRs too; they carry a pull_request field.
		if raw.PullRequest != nil {
			continue
		}

		labels := make([]string, 0, len(raw.Labels))
		blocked := false
		for _, l := range raw.Labels {
			labels = append(labels, l.Name)
			if l.Name == "blocked" || l.Name == "blocker" {
				blocked = true
			}
		}

		info := IssueInfo{
			Number:         raw.Number,
			Title:          raw.Title,
			State:          raw.State,
			CreatedDaysAgo: daysSince(now, raw.CreatedAt),
			Labels:         labels,
			IsBlocked:      blocked,
		}

		status.OpenIssues = append(status.OpenIssues, info)
		if blocked {
			status.BlockedIssues = append(status.BlockedIssues, info)
		}
		if info.CreatedDaysAgo > staleIssueDays {
			status.StaleIssues = append(status.StaleIssues, info)
		}
	}

	status.OpenPRCount = len(rawPulls)
	for _, raw := range rawPulls {
		if daysSince(now, raw.CreatedAt) > stalePRDays {
			status.StalePRCount++
		}
	}

	c.log.Debug().
		Int("open_issues", len(status.OpenIssues)).
		Int("blocked", len(status.BlockedIssues)).
		Int("open_prs", status.OpenPRCount).
		Msg("fetched project status")

	return status, nil
}

func daysSince(now, t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// API wire structures, trimmed to the fields the analysis reads.

type apiIssue struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	Labels      []apiLabel `json:"labels"`
	PullRequest *struct{}  `json:"pull_request"`
}

type apiLabel struct {
	Name string `json:"name"`
}

type apiPull struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
