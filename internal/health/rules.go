package health

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/x100-tools/x100/internal/scan"
)

// Name fragments that mark a file as high risk when untested. The next-step
// rule uses a narrower set that excludes "api".
var (
	highRiskGapKeywords  = []string{"payment", "auth", "security", "api"}
	highRiskStepKeywords = []string{"payment", "auth", "security"}
)

func findBlockers(in Inputs, coverageTarget int) []Blocker {
	var blockers []Blocker

	if n := len(in.Code.Fixmes); n > 5 {
		blockers = append(blockers, Blocker{
			Title:   fmt.Sprintf("%d FIXME markers in codebase", n),
			Impact:  "Technical debt accumulating",
			Source:  "code",
			Details: fmt.Sprintf("Found %d FIXME markers that need attention", n),
		})
	}

	if in.Tests.Coverage != nil && *in.Tests.Coverage < 60 {
		blockers = append(blockers, Blocker{
			Title:   fmt.Sprintf("Low test coverage (%.1f%%)", *in.Tests.Coverage),
			Impact:  "High risk of production issues",
			Source:  "code",
			Details: fmt.Sprintf("Coverage is %.1f%%, target should be >%d%%", *in.Tests.Coverage, coverageTarget),
		})
	}

	if in.Git.IsRepo && in.Git.Commits7d == 0 {
		blockers = append(blockers, Blocker{
			Title:   "No recent commits (7+ days)",
			Impact:  "Project appears inactive",
			Source:  "git",
			Details: "No commits in the last 7 days may indicate stalled development",
		})
	}

	if in.Project != nil {
		for _, issue := range in.Project.BlockedIssues {
			blockers = append(blockers, Blocker{
				Title:   fmt.Sprintf("Issue #%d: %s", issue.Number, issue.Title),
				Impact:  fmt.Sprintf("Blocked for %d days", issue.CreatedDaysAgo),
				Source:  "github",
				Details: "Blocking other work",
			})
		}
	}

	return blockers
}

func findGaps(in Inputs, oldTodoDays int) []Gap {
	var gaps []Gap

	if len(in.Tests.UntestedFiles) > 0 {
		highRisk := filterByKeywords(in.Tests.UntestedFiles, highRiskGapKeywords)
		if len(highRisk) > 0 {
			if len(highRisk) > 3 {
				highRisk = highRisk[:3]
			}
			for _, f := range highRisk {
				gaps = append(gaps, Gap{
					Category:    "Quality Gap",
					Description: fmt.Sprintf("%s: No tests (high risk module)", filepath.Base(f)),
					Severity:    "high",
					File:        f,
				})
			}
		} else if len(in.Tests.UntestedFiles) > 5 {
			gaps = append(gaps, Gap{
				Category:    "Quality Gap",
				Description: fmt.Sprintf("%d files without tests", len(in.Tests.UntestedFiles)),
				Severity:    "medium",
			})
		}
	}

	if n := countOldTodos(in.Code.Todos, oldTodoDays); n > 10 {
		gaps = append(gaps, Gap{
			Category:    "Technical Debt",
			Description: fmt.Sprintf("%d TODO markers older than %d days", n, oldTodoDays),
			Severity:    "medium",
		})
	}

	return gaps
}

func nextSteps(in Inputs) []NextStep {
	var steps []NextStep
	order := 1

	add := func(priority, action, rationale, impact, effort string) {
		steps = append(steps, NextStep{
			Priority:  priority,
			Action:    action,
			Rationale: rationale,
			Impact:    impact,
			Effort:    effort,
			Order:     order,
		})
		order++
	}

	if in.Tests.Coverage != nil && *in.Tests.Coverage < 60 {
		add(PriorityNow,
			"Increase test coverage to >60%",
			"Current coverage is critically low, high risk of production issues",
			"Reduces risk, improves confidence in changes",
			"4-8 hours")
	}

	if highRisk := filterByKeywords(in.Tests.UntestedFiles, highRiskStepKeywords); len(highRisk) > 0 {
		add(PriorityNow,
			fmt.Sprintf("Add tests for %s", filepath.Base(highRisk[0])),
			"High-risk module without test coverage",
			"Reduces production risk for critical functionality",
			"2-4 hours")
	}

	if n := len(in.Code.Fixmes); n > 5 {
		add(PriorityThisWeek,
			fmt.Sprintf("Address %d FIXME markers", n),
			"Technical debt is accumulating",
			"Improves code quality and maintainability",
			"4-8 hours")
	}

	if n := len(in.Code.Todos); n > 20 {
		add(PriorityThisWeek,
			fmt.Sprintf("Review and clean up %d TODO markers", n),
			"Keep technical debt under control",
			"Clarifies remaining work, prevents debt accumulation",
			"2-4 hours")
	}

	if in.Git.IsRepo && in.Git.CommitsPerDay < 1.0 {
		add(PriorityNextSprint,
			"Increase development velocity",
			"Current velocity is below optimal",
			"Faster feature delivery",
			"Planning session")
	}

	if len(steps) == 0 {
		add(PriorityNextSprint,
			"Continue current trajectory",
			"Project health is good, maintain momentum",
			"Sustained quality and delivery",
			"Ongoing")
	}

	return steps
}

func filterByKeywords(files []string, keywords []string) []string {
	var matched []string
	for _, f := range files {
		lower := strings.ToLower(f)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, f)
				break
			}
		}
	}
	return matched
}

func countOldTodos(todos []scan.TodoItem, oldTodoDays int) int {
	n := 0
	for _, t := range todos {
		// AgeDays is zero when unknown, which never exceeds the threshold.
		if t.AgeDays > oldTodoDays {
			n++
		}
	}
	return n
}
