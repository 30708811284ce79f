// Package health scores a project and derives blockers, gaps, and
// prioritized next steps from the scan, git, and GitHub reports. The rules
// are deterministic; the optional AI layer on top of them lives in
// internal/nextstep.
package health

import (
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/github"
	"github.com/x100-tools/x100/internal/gitstats"
	"github.com/x100-tools/x100/internal/scan"
)

// NextStep priorities, in urgency order.
const (
	PriorityNow        = "NOW"
	PriorityThisWeek   = "This Week"
	PriorityNextSprint = "Next Sprint"
)

// Score is the 0-100 health breakdown across the four dimensions.
type Score struct {
	Overall  int    `json:"overall"`
	Velocity int    `json:"velocity_score"`
	Quality  int    `json:"quality_score"`
	Blockers int    `json:"blocker_score"`
	Activity int    `json:"activity_score"`
	Summary  string `json:"summary"`
	Trend    string `json:"trend"` // "improving", "stable", or "declining"
}

// Blocker is an issue that holds work up.
type Blocker struct {
	Title   string `json:"title"`
	Impact  string `json:"impact"`
	Source  string `json:"source"` // "code", "git", or "github"
	Details string `json:"details,omitempty"`
}

// Gap is a quality or consistency hole that is not yet blocking.
type Gap struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // "low", "medium", or "high"
	File        string `json:"file,omitempty"`
}

// NextStep is one recommended action.
type NextStep struct {
	Priority  string `json:"priority"` // PriorityNow, PriorityThisWeek, or PriorityNextSprint
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
	Impact    string `json:"impact"`
	Effort    string `json:"effort"`
	Order     int    `json:"order"`
}

// Recommendations is the complete rule-engine output.
type Recommendations struct {
	Health      Score      `json:"health_score"`
	Blockers    []Blocker  `json:"blockers"`
	Gaps        []Gap      `json:"gaps"`
	NextSteps   []NextStep `json:"next_steps"`
	RawAnalysis string     `json:"raw_analysis,omitempty"`
}

// Inputs bundles the analysis reports the rules read. Project is nil when the
// GitHub integration is disabled or failed.
type Inputs struct {
	Code    scan.CodeReport
	Git     gitstats.Report
	Tests   scan.TestReport
	Project *github.ProjectStatus
}

// Evaluate runs the full rule engine over the reports.
func Evaluate(in Inputs, cfg *config.NextstepConfig) Recommendations {
	blockers := findBlockers(in, cfg.Analysis.CoverageThreshold)
	gaps := findGaps(in, cfg.Analysis.OldTodoDays)
	return Recommendations{
		Health:    scoreHealth(in, cfg),
		Blockers:  blockers,
		Gaps:      gaps,
		NextSteps: nextSteps(in),
	}
}

func scoreHealth(in Inputs, cfg *config.NextstepConfig) Score {
	velocity := velocityScore(in.Git)
	quality := qualityScore(in.Code, in.Tests, cfg.Analysis.CoverageThreshold)
	blockers := blockerScore(in.Code)
	activity := activityScore(in.Git)

	w := cfg.HealthWeights
	overall := int(float64(velocity)*w.Velocity +
		float64(quality)*w.Quality +
		float64(blockers)*w.Blockers +
		float64(activity)*w.Activity)

	summary, trend := band(overall)

	return Score{
		Overall:  overall,
		Velocity: velocity,
		Quality:  quality,
		Blockers: blockers,
		Activity: activity,
		Summary:  summary,
		Trend:    trend,
	}
}

func activityScore(git gitstats.Report) int {
	if !git.IsRepo {
		return 50
	}
	switch {
	case git.CommitsPerDay >= 2.0:
		return 100
	case git.CommitsPerDay >= 1.0:
		return 80
	case git.CommitsPerDay >= 0.5:
		return 60
	case git.Commits7d > 0:
		return 40
	default:
		return 20
	}
}

func qualityScore(code scan.CodeReport, tests scan.TestReport, coverageTarget int) int {
	quality := 100.0
	if tests.Coverage != nil {
		if penalty := float64(coverageTarget) - *tests.Coverage; penalty > 0 {
			quality -= penalty
		}
	}

	markers := len(code.Todos) + len(code.Fixmes)
	switch {
	case markers > 50:
		quality -= 20
	case markers > 20:
		quality -= 10
	case markers > 10:
		quality -= 5
	}

	if quality < 0 {
		quality = 0
	}
	return int(quality)
}

func blockerScore(code scan.CodeReport) int {
	switch n := len(code.Fixmes); {
	case n > 20:
		return 40
	case n > 10:
		return 60
	case n > 5:
		return 80
	default:
		return 100
	}
}

func velocityScore(git gitstats.Report) int {
	if !git.IsRepo {
		return 50
	}
	switch {
	case git.Commits7d >= 14:
		return 100
	case git.Commits7d >= 7:
		return 85
	case git.Commits7d >= 3:
		return 70
	case git.Commits7d > 0:
		return 50
	default:
		return 30
	}
}

func band(overall int) (summary, trend string) {
	switch {
	case overall >= 80:
		return "Excellent", "improving"
	case overall >= 70:
		return "Good", "stable"
	case overall >= 60:
		return "Fair", "stable"
	case overall >= 50:
		return "Needs Attention", "declining"
	default:
		return "Poor", "declining"
	}
}
