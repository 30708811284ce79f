package nextstep

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x100-tools/x100/internal/gitstats"
	"github.com/x100-tools/x100/internal/health"
	"github.com/x100-tools/x100/internal/scan"
)

func sampleResult() *Result {
	return &Result{
		GeneratedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		Recs: health.Recommendations{
			Health: health.Score{
				Overall:  71,
				Velocity: 85,
				Quality:  70,
				Blockers: 60,
				Activity: 80,
				Summary:  "Good",
				Trend:    "stable",
			},
			Blockers: []health.Blocker{
				{Title: "12 FIXME markers in codebase", Impact: "Technical debt accumulating", Source: "code", Details: "Found 12 FIXME markers that need attention"},
			},
			Gaps: []health.Gap{
				{Category: "Quality Gap", Description: "auth.py: No tests (high risk module)", Severity: "high", File: "src/auth.py"},
				{Category: "Technical Debt", Description: "14 TODO markers older than 30 days", Severity: "medium"},
			},
			NextSteps: []health.NextStep{
				{Priority: health.PriorityNow, Action: "Increase test coverage to >60%", Rationale: "Current coverage is critically low, high risk of production issues", Impact: "Reduces risk, improves confidence in changes", Effort: "4-8 hours", Order: 1},
				{Priority: health.PriorityThisWeek, Action: "Address 12 FIXME markers", Rationale: "Technical debt is accumulating", Impact: "Improves code quality and maintainability", Effort: "4-8 hours", Order: 2},
				{Priority: health.PriorityNextSprint, Action: "Increase development velocity", Rationale: "Current velocity is below optimal", Impact: "Faster feature delivery", Effort: "Planning session", Order: 3},
			},
		},
		Code: scan.CodeReport{
			FileCount:   42,
			LineCount:   12345,
			PythonFiles: 30,
			Todos:       make([]scan.TodoItem, 14),
			Fixmes:      make([]scan.TodoItem, 12),
		},
		Git: gitstats.Report{
			IsRepo:        true,
			Commits7d:     5,
			Commits30d:    22,
			CommitsPerDay: 0.7,
			Contributors:  2,
			LastCommitAt:  time.Date(2025, 5, 30, 18, 0, 0, 0, time.UTC),
		},
		Tests: scan.TestReport{
			Coverage:      coverage(72.5),
			TestCount:     8,
			UntestedFiles: []string{"src/auth.py"},
		},
	}
}

// --- markdown tests ---

func TestMarkdown_Header(t *testing.T) {
	md := Markdown(sampleResult(), false)

	assert.Contains(t, md, "# Project Health Analysis")
	assert.Contains(t, md, "**Generated:** 2025-06-01 10:30:00")
	assert.Contains(t, md, "**Overall Score:** 71/100 (Good)")
	assert.Contains(t, md, "| Velocity | 85/100 |")
	assert.Contains(t, md, "| Quality | 70/100 |")
	assert.Contains(t, md, "| Blockers | 60/100 |")
	assert.Contains(t, md, "| Activity | 80/100 |")
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(sampleResult(), false)

	assert.Contains(t, md, "## 🔴 Blockers & Risks")
	assert.Contains(t, md, "### 12 FIXME markers in codebase")
	assert.Contains(t, md, "- **Impact:** Technical debt accumulating")
	assert.Contains(t, md, "- **Source:** code")
	assert.Contains(t, md, "- **Details:** Found 12 FIXME markers that need attention")

	assert.Contains(t, md, "## 🔍 Gaps Detected")
	assert.Contains(t, md, "- 🔴 **Quality Gap:** auth.py: No tests (high risk module)")
	assert.Contains(t, md, "- ⚠️ **Technical Debt:** 14 TODO markers older than 30 days")

	assert.Contains(t, md, "## 💡 Recommended Next Steps")
	assert.Contains(t, md, "### 🎯 NOW")
	assert.Contains(t, md, "### 🔄 This Week")
	assert.Contains(t, md, "### 📅 Next Sprint")
	assert.Contains(t, md, "1. **Increase test coverage to >60%**")
	assert.Contains(t, md, "   - **Rationale:** Current coverage is critically low, high risk of production issues")
	assert.Contains(t, md, "   - **Effort:** Planning session")
}

func TestMarkdown_EmptySectionsOmitted(t *testing.T) {
	res := sampleResult()
	res.Recs.Blockers = nil
	res.Recs.Gaps = nil
	res.Recs.NextSteps = nil

	md := Markdown(res, false)

	assert.NotContains(t, md, "## 🔴 Blockers & Risks")
	assert.NotContains(t, md, "## 🔍 Gaps Detected")
	assert.NotContains(t, md, "## 💡 Recommended Next Steps")
}

func TestMarkdown_VerboseStatistics(t *testing.T) {
	md := Markdown(sampleResult(), true)

	assert.Contains(t, md, "## 📊 Statistics")
	assert.Contains(t, md, "| Files | 42 |")
	assert.Contains(t, md, "| Lines of Code | 12,345 |")
	assert.Contains(t, md, "| TODO Markers | 14 |")
	assert.Contains(t, md, "| Test Coverage | 72.5% |")
	assert.Contains(t, md, "| Test Files | 8 |")
	assert.Contains(t, md, "| Commits (7d) | 5 |")
	assert.Contains(t, md, "| Commits/Day | 0.7 |")
}

func TestMarkdown_NonVerboseOmitsStatistics(t *testing.T) {
	assert.NotContains(t, Markdown(sampleResult(), false), "## 📊 Statistics")
}

func TestMarkdown_ZeroCoverageRowOmitted(t *testing.T) {
	res := sampleResult()
	res.Tests.Coverage = coverage(0)

	assert.NotContains(t, Markdown(res, true), "| Test Coverage |")
}

func TestMarkdown_NonRepoOmitsGitRows(t *testing.T) {
	res := sampleResult()
	res.Git = gitstats.Report{IsRepo: false}

	md := Markdown(res, true)
	assert.NotContains(t, md, "| Commits (7d) |")
}

func TestGroupDigits(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		12345:   "12,345",
		1234567: "1,234,567",
		-4200:   "-4,200",
	}
	for in, want := range cases {
		assert.Equal(t, want, GroupDigits(in))
	}
}

func TestPriorityIcon(t *testing.T) {
	assert.Equal(t, "🎯", PriorityIcon(health.PriorityNow))
	assert.Equal(t, "🔄", PriorityIcon(health.PriorityThisWeek))
	assert.Equal(t, "📅", PriorityIcon(health.PriorityNextSprint))
}

func TestStepsFor(t *testing.T) {
	steps := sampleResult().Recs.NextSteps

	now := StepsFor(steps, health.PriorityNow)
	require.Len(t, now, 1)
	assert.Equal(t, 1, now[0].Order)
	assert.Empty(t, StepsFor(steps, "Someday"))
}

// --- json tests ---

func TestJSON_Shape(t *testing.T) {
	out, err := JSON(sampleResult(), false)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "2025-06-01T10:30:00Z", report["timestamp"])

	hs, ok := report["health_score"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(71), hs["overall"])
	assert.Equal(t, "Good", hs["summary"])
	assert.Equal(t, float64(85), hs["velocity"])
	assert.Equal(t, "stable", hs["trend"])

	blockers, ok := report["blockers"].([]any)
	require.True(t, ok)
	require.Len(t, blockers, 1)
	first := blockers[0].(map[string]any)
	assert.Equal(t, "12 FIXME markers in codebase", first["title"])
	assert.Contains(t, first, "details")

	gaps := report["gaps"].([]any)
	require.Len(t, gaps, 2)
	assert.Equal(t, "src/auth.py", gaps[0].(map[string]any)["file"])
	assert.Nil(t, gaps[1].(map[string]any)["file"])

	steps := report["next_steps"].([]any)
	require.Len(t, steps, 3)
	assert.Equal(t, "NOW", steps[0].(map[string]any)["priority"])

	_, hasStats := report["statistics"]
	assert.False(t, hasStats)
}

func TestJSON_EmptyListsStayLists(t *testing.T) {
	res := sampleResult()
	res.Recs.Blockers = nil
	res.Recs.Gaps = nil
	res.Recs.NextSteps = nil

	out, err := JSON(res, false)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	for _, key := range []string{"blockers", "gaps", "next_steps"} {
		list, ok := report[key].([]any)
		assert.True(t, ok, key)
		assert.Empty(t, list, key)
	}
}

func TestJSON_VerboseStatistics(t *testing.T) {
	out, err := JSON(sampleResult(), true)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	stats, ok := report["statistics"].(map[string]any)
	require.True(t, ok)

	code := stats["code"].(map[string]any)
	assert.Equal(t, float64(42), code["files"])
	assert.Equal(t, float64(12345), code["lines"])

	tests := stats["tests"].(map[string]any)
	assert.Equal(t, 72.5, tests["coverage"])
	assert.Equal(t, float64(1), tests["untested_files"])

	git, ok := stats["git"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(5), git["commits_7d"])
	assert.Equal(t, "2025-05-30T18:00:00Z", git["last_commit"])
}

func TestJSON_NonRepoGitNull(t *testing.T) {
	res := sampleResult()
	res.Git = gitstats.Report{IsRepo: false}

	out, err := JSON(res, true)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	stats := report["statistics"].(map[string]any)
	assert.Contains(t, stats, "git")
	assert.Nil(t, stats["git"])
}

// --- save tests ---

func TestSaveReport_TimestampedName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	at := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	path, err := SaveReport(dir, "# report\n", FormatMarkdown, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nextstep_report_20250601_103000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# report\n", string(data))
}

func TestSaveReport_JSONExtension(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	path, err := SaveReport(dir, "{}", FormatJSON, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nextstep_report_20250601_103000.json"), path)
}

func TestSaveReportTo_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.md")

	require.NoError(t, SaveReportTo(path, "content"))
	assert.FileExists(t, path)
}
