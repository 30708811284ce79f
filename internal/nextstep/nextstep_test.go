package nextstep

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/github"
	"github.com/x100-tools/x100/internal/llm"
	"github.com/x100-tools/x100/internal/logging"
	"github.com/x100-tools/x100/internal/store"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func testRunner(t *testing.T, reg *llm.Registry) (*Runner, *store.MemoryHistoryStore, *bytes.Buffer) {
	t.Helper()
	if reg == nil {
		reg = llm.NewRegistry(silentLog())
	}
	cfg := config.NextstepDefaults("claude")
	mem := store.NewMemoryHistoryStore()
	out := &bytes.Buffer{}
	r := NewRunner(config.PathsAt(t.TempDir()), &cfg, reg, mem, out, silentLog())
	return r, mem, out
}

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// --- runner tests ---

func TestRun_RuleBased(t *testing.T) {
	r, _, out := testRunner(t, nil)
	writeProjectFile(t, r.paths.Root, "src/auth.py", "# TODO: finish\nprint('x')\n# FIXME: broken\n")

	res := r.Run(context.Background(), Options{UseAI: false})

	assert.Empty(t, res.Agent)
	assert.Empty(t, res.Recs.RawAnalysis)
	assert.Equal(t, 1, res.Code.FileCount)
	assert.Len(t, res.Code.Todos, 1)
	assert.Len(t, res.Code.Fixmes, 1)
	assert.Greater(t, res.Recs.Health.Overall, 0)
	assert.False(t, res.GeneratedAt.IsZero())
	assert.Contains(t, out.String(), "Analyzing (rule-based)...")
}

func TestRun_ProgressLines(t *testing.T) {
	r, _, out := testRunner(t, nil)

	r.Run(context.Background(), Options{})

	for _, label := range []string{
		"Analyzing codebase...",
		"Analyzing git history...",
		"Analyzing tests...",
		"Analyzing user stories...",
		"Analyzing documentation...",
	} {
		assert.Contains(t, out.String(), label)
	}
}

func TestRun_AIAnalysis(t *testing.T) {
	var gotPrompt string
	reg := llm.NewRegistry(silentLog())
	reg.Register("claude", &llm.MockClient{
		ProviderName: "claude",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			gotPrompt = req.Prompt
			return &llm.CompletionResponse{Content: "Focus on test coverage first."}, nil
		},
	})
	r, _, out := testRunner(t, reg)

	res := r.Run(context.Background(), Options{UseAI: true})

	assert.Equal(t, "claude", res.Agent)
	assert.Equal(t, "Focus on test coverage first.", res.Recs.RawAnalysis)
	assert.Contains(t, gotPrompt, "# Project Analysis Request")
	assert.Contains(t, gotPrompt, "## Request")
	assert.Contains(t, out.String(), "Generating recommendations...")
}

func TestRun_NoProviderFallsBack(t *testing.T) {
	r, _, _ := testRunner(t, nil) // empty registry

	res := r.Run(context.Background(), Options{UseAI: true})

	assert.Empty(t, res.Agent)
	assert.Equal(t, "Using rule-based analysis (AI CLI not available)", res.Recs.RawAnalysis)
}

func TestRun_AIErrorKeepsReport(t *testing.T) {
	reg := llm.NewRegistry(silentLog())
	reg.Register("claude", &llm.MockClient{
		ProviderName: "claude",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return nil, errors.New("claude: 1 rate limited")
		},
	})
	r, _, _ := testRunner(t, reg)

	res := r.Run(context.Background(), Options{UseAI: true})

	assert.Equal(t, "claude", res.Agent)
	assert.Equal(t, "Error: claude: 1 rate limited", res.Recs.RawAnalysis)
	assert.Greater(t, res.Recs.Health.Overall, 0)
}

// --- github integration tests ---

func TestRun_GitHubDisabled(t *testing.T) {
	r, _, out := testRunner(t, nil)
	called := false
	r.project = func(ctx context.Context, token string) (*github.ProjectStatus, error) {
		called = true
		return nil, nil
	}

	res := r.Run(context.Background(), Options{})

	assert.False(t, called)
	assert.Nil(t, res.Project)
	assert.NotContains(t, out.String(), "Fetching GitHub status")
}

func TestRun_GitHubMissingToken(t *testing.T) {
	r, _, out := testRunner(t, nil)
	r.cfg.GitHub.Enabled = true
	r.cfg.GitHub.Repo = "acme/demo"
	r.cfg.GitHub.TokenEnv = "X100_TEST_MISSING_TOKEN"
	t.Setenv("X100_TEST_MISSING_TOKEN", "")

	called := false
	r.project = func(ctx context.Context, token string) (*github.ProjectStatus, error) {
		called = true
		return nil, nil
	}

	res := r.Run(context.Background(), Options{})

	assert.False(t, called)
	assert.Nil(t, res.Project)
	assert.Contains(t, out.String(), "Warning: GitHub token not found (set X100_TEST_MISSING_TOKEN)")
}

func TestRun_GitHubTokenOption(t *testing.T) {
	r, _, _ := testRunner(t, nil)
	r.cfg.GitHub.Enabled = true
	r.cfg.GitHub.Repo = "acme/demo"

	var gotToken string
	r.project = func(ctx context.Context, token string) (*github.ProjectStatus, error) {
		gotToken = token
		return &github.ProjectStatus{OpenPRCount: 2}, nil
	}

	res := r.Run(context.Background(), Options{Token: "tkn-123"})

	assert.Equal(t, "tkn-123", gotToken)
	require.NotNil(t, res.Project)
	assert.Equal(t, 2, res.Project.OpenPRCount)
}

func TestRun_GitHubFailureDegrades(t *testing.T) {
	r, _, out := testRunner(t, nil)
	r.cfg.GitHub.Enabled = true
	r.cfg.GitHub.Repo = "acme/demo"

	r.project = func(ctx context.Context, token string) (*github.ProjectStatus, error) {
		return nil, errors.New("api rate limit exceeded")
	}

	res := r.Run(context.Background(), Options{Token: "tkn"})

	assert.Nil(t, res.Project)
	assert.Contains(t, out.String(), "Warning: GitHub integration failed: api rate limit exceeded")
	assert.Greater(t, res.Recs.Health.Overall, 0)
}

// --- history recording tests ---

func TestRun_RecordsSnapshot(t *testing.T) {
	r, mem, _ := testRunner(t, nil)
	writeProjectFile(t, r.paths.Root, "src/main.py", "print('x')\n")

	res := r.Run(context.Background(), Options{})

	snaps, err := mem.Recent(1)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, res.Recs.Health.Overall, snaps[0].Overall)
	assert.Equal(t, res.Recs.Health.Summary, snaps[0].Summary)
	assert.Equal(t, res.Code.FileCount, snaps[0].Files)
	assert.Equal(t, res.GeneratedAt, snaps[0].CreatedAt)
}

func TestRun_NoHistoryStore(t *testing.T) {
	cfg := config.NextstepDefaults("claude")
	r := NewRunner(config.PathsAt(t.TempDir()), &cfg, llm.NewRegistry(silentLog()), nil, nil, silentLog())

	res := r.Run(context.Background(), Options{})
	assert.NotNil(t, res)
}
