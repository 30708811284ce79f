package health

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/github"
	"github.com/x100-tools/x100/internal/gitstats"
	"github.com/x100-tools/x100/internal/scan"
)

func coverage(v float64) *float64 { return &v }

func markers(kind string, n int) []scan.TodoItem {
	items := make([]scan.TodoItem, n)
	for i := range items {
		items[i] = scan.TodoItem{File: fmt.Sprintf("src/mod%d.py", i), Line: 1, Text: "later", Kind: kind}
	}
	return items
}

// --- component score tests ---

func TestActivityScore(t *testing.T) {
	tests := []struct {
		name string
		git  gitstats.Report
		want int
	}{
		{"not a repo", gitstats.Report{}, 50},
		{"two per day", gitstats.Report{IsRepo: true, CommitsPerDay: 2.0}, 100},
		{"one per day", gitstats.Report{IsRepo: true, CommitsPerDay: 1.0}, 80},
		{"half per day", gitstats.Report{IsRepo: true, CommitsPerDay: 0.5}, 60},
		{"a trickle", gitstats.Report{IsRepo: true, CommitsPerDay: 0.1, Commits7d: 1}, 40},
		{"dormant", gitstats.Report{IsRepo: true}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, activityScore(tt.git))
		})
	}
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name  string
		code  scan.CodeReport
		tests scan.TestReport
		want  int
	}{
		{"clean with no coverage data", scan.CodeReport{}, scan.TestReport{}, 100},
		{"coverage above target", scan.CodeReport{}, scan.TestReport{Coverage: coverage(92)}, 100},
		{"coverage below target", scan.CodeReport{}, scan.TestReport{Coverage: coverage(45)}, 65},
		{"marker penalty light", scan.CodeReport{Todos: markers("TODO", 11)}, scan.TestReport{}, 95},
		{"marker penalty medium", scan.CodeReport{Todos: markers("TODO", 21)}, scan.TestReport{}, 90},
		{"marker penalty heavy", scan.CodeReport{Todos: markers("TODO", 40), Fixmes: markers("FIXME", 11)}, scan.TestReport{}, 80},
		{"floored at zero", scan.CodeReport{Todos: markers("TODO", 60)}, scan.TestReport{Coverage: coverage(0)}, 0},
		{"fractional coverage truncates", scan.CodeReport{}, scan.TestReport{Coverage: coverage(52.5)}, 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, qualityScore(tt.code, tt.tests, 80))
		})
	}
}

func TestBlockerScore(t *testing.T) {
	tests := []struct {
		fixmes int
		want   int
	}{
		{0, 100}, {5, 100}, {6, 80}, {11, 60}, {21, 40},
	}
	for _, tt := range tests {
		code := scan.CodeReport{Fixmes: markers("FIXME", tt.fixmes)}
		assert.Equal(t, tt.want, blockerScore(code), "fixmes=%d", tt.fixmes)
	}
}

func TestVelocityScore(t *testing.T) {
	tests := []struct {
		name string
		git  gitstats.Report
		want int
	}{
		{"not a repo", gitstats.Report{}, 50},
		{"fourteen in a week", gitstats.Report{IsRepo: true, Commits7d: 14}, 100},
		{"seven in a week", gitstats.Report{IsRepo: true, Commits7d: 7}, 85},
		{"three in a week", gitstats.Report{IsRepo: true, Commits7d: 3}, 70},
		{"one in a week", gitstats.Report{IsRepo: true, Commits7d: 1}, 50},
		{"none in a week", gitstats.Report{IsRepo: true}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, velocityScore(tt.git))
		})
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		overall int
		summary string
		trend   string
	}{
		{95, "Excellent", "improving"},
		{80, "Excellent", "improving"},
		{79, "Good", "stable"},
		{65, "Fair", "stable"},
		{55, "Needs Attention", "declining"},
		{30, "Poor", "declining"},
	}
	for _, tt := range tests {
		summary, trend := band(tt.overall)
		assert.Equal(t, tt.summary, summary, "overall=%d", tt.overall)
		assert.Equal(t, tt.trend, trend, "overall=%d", tt.overall)
	}
}

// --- full evaluation tests ---

func TestEvaluateHealthyProject(t *testing.T) {
	cfg := config.NextstepDefaults("")
	in := Inputs{
		Code:  scan.CodeReport{FileCount: 40, LineCount: 5000},
		Git:   gitstats.Report{IsRepo: true, Commits7d: 20, Commits30d: 70, CommitsPerDay: 2.9},
		Tests: scan.TestReport{Coverage: coverage(92), TestCount: 30},
	}

	rec := Evaluate(in, &cfg)

	assert.Equal(t, 100, rec.Health.Overall)
	assert.Equal(t, "Excellent", rec.Health.Summary)
	assert.Equal(t, "improving", rec.Health.Trend)
	assert.Empty(t, rec.Blockers)
	assert.Empty(t, rec.Gaps)

	require.Len(t, rec.NextSteps, 1)
	assert.Equal(t, "Continue current trajectory", rec.NextSteps[0].Action)
	assert.Equal(t, PriorityNextSprint, rec.NextSteps[0].Priority)
	assert.Equal(t, 1, rec.NextSteps[0].Order)
}

func TestEvaluateTroubledProject(t *testing.T) {
	cfg := config.NextstepDefaults("")
	in := Inputs{
		Code:  scan.CodeReport{Fixmes: markers("FIXME", 7)},
		Git:   gitstats.Report{IsRepo: true},
		Tests: scan.TestReport{Coverage: coverage(45), UntestedFiles: []string{"src/auth/login.py"}},
		Project: &github.ProjectStatus{
			BlockedIssues: []github.IssueInfo{
				{Number: 42, Title: "DB migration stuck", CreatedDaysAgo: 12, IsBlocked: true},
			},
		},
	}

	rec := Evaluate(in, &cfg)

	// velocity 30, quality 65, blockers 80, activity 20 under default weights.
	assert.Equal(t, 53, rec.Health.Overall)
	assert.Equal(t, "Needs Attention", rec.Health.Summary)
	assert.Equal(t, 30, rec.Health.Velocity)
	assert.Equal(t, 65, rec.Health.Quality)
	assert.Equal(t, 80, rec.Health.Blockers)
	assert.Equal(t, 20, rec.Health.Activity)

	require.Len(t, rec.Blockers, 4)
	assert.Equal(t, "7 FIXME markers in codebase", rec.Blockers[0].Title)
	assert.Equal(t, "Low test coverage (45.0%)", rec.Blockers[1].Title)
	assert.Contains(t, rec.Blockers[1].Details, "target should be >80%")
	assert.Equal(t, "No recent commits (7+ days)", rec.Blockers[2].Title)
	assert.Equal(t, "Issue #42: DB migration stuck", rec.Blockers[3].Title)
	assert.Equal(t, "Blocked for 12 days", rec.Blockers[3].Impact)
	assert.Equal(t, "github", rec.Blockers[3].Source)

	require.Len(t, rec.NextSteps, 4)
	assert.Equal(t, "Increase test coverage to >60%", rec.NextSteps[0].Action)
	assert.Equal(t, PriorityNow, rec.NextSteps[0].Priority)
	assert.Equal(t, "Add tests for login.py", rec.NextSteps[1].Action)
	assert.Equal(t, "Address 7 FIXME markers", rec.NextSteps[2].Action)
	assert.Equal(t, PriorityThisWeek, rec.NextSteps[2].Priority)
	assert.Equal(t, "Increase development velocity", rec.NextSteps[3].Action)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{
		rec.NextSteps[0].Order, rec.NextSteps[1].Order,
		rec.NextSteps[2].Order, rec.NextSteps[3].Order,
	})
}

func TestEvaluateNonRepoIsNeutral(t *testing.T) {
	cfg := config.NextstepDefaults("")
	rec := Evaluate(Inputs{}, &cfg)

	// Both git-driven dimensions sit at the neutral 50.
	assert.Equal(t, 50, rec.Health.Velocity)
	assert.Equal(t, 50, rec.Health.Activity)
	assert.Equal(t, 80, rec.Health.Overall)
	assert.Empty(t, rec.Blockers)
}

// --- gap rule tests ---

func TestFindGapsHighRiskFiles(t *testing.T) {
	in := Inputs{Tests: scan.TestReport{UntestedFiles: []string{
		"src/payment_gateway.py",
		"src/auth_handler.py",
		"src/api_routes.py",
		"src/security_utils.py",
	}}}

	gaps := findGaps(in, 30)

	// Top three high-risk matches, in discovery order.
	require.Len(t, gaps, 3)
	assert.Equal(t, "payment_gateway.py: No tests (high risk module)", gaps[0].Description)
	assert.Equal(t, "high", gaps[0].Severity)
	assert.Equal(t, "src/payment_gateway.py", gaps[0].File)
	assert.Equal(t, "auth_handler.py: No tests (high risk module)", gaps[1].Description)
	assert.Equal(t, "api_routes.py: No tests (high risk module)", gaps[2].Description)
}

func TestFindGapsManyUntested(t *testing.T) {
	files := make([]string, 7)
	for i := range files {
		files[i] = fmt.Sprintf("src/helper%d.py", i)
	}

	gaps := findGaps(Inputs{Tests: scan.TestReport{UntestedFiles: files}}, 30)

	require.Len(t, gaps, 1)
	assert.Equal(t, "7 files without tests", gaps[0].Description)
	assert.Equal(t, "medium", gaps[0].Severity)
	assert.Empty(t, gaps[0].File)
}

func TestFindGapsOldTodos(t *testing.T) {
	old := make([]scan.TodoItem, 12)
	for i := range old {
		old[i] = scan.TodoItem{File: "src/a.py", Kind: "TODO", AgeDays: 45}
	}

	gaps := findGaps(Inputs{Code: scan.CodeReport{Todos: old}}, 30)
	require.Len(t, gaps, 1)
	assert.Equal(t, "12 TODO markers older than 30 days", gaps[0].Description)
	assert.Equal(t, "Technical Debt", gaps[0].Category)

	// Markers with unknown age never count.
	for i := range old {
		old[i].AgeDays = 0
	}
	assert.Empty(t, findGaps(Inputs{Code: scan.CodeReport{Todos: old}}, 30))
}

func TestNextStepsApiFilesAreNotStepTargets(t *testing.T) {
	// "api" marks a gap but is not urgent enough for a NOW step.
	in := Inputs{
		Git:   gitstats.Report{IsRepo: true, CommitsPerDay: 1.5},
		Tests: scan.TestReport{UntestedFiles: []string{"src/api_routes.py"}},
	}

	steps := nextSteps(in)
	require.Len(t, steps, 1)
	assert.Equal(t, "Continue current trajectory", steps[0].Action)
}
