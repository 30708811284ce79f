package nextstep

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/x100-tools/x100/internal/health"
)

// priorityOrder is the display order for next-step groups.
var priorityOrder = []string{health.PriorityNow, health.PriorityThisWeek, health.PriorityNextSprint}

// PriorityIcon returns the marker shown next to a priority heading.
func PriorityIcon(priority string) string {
	switch priority {
	case health.PriorityNow:
		return "🎯"
	case health.PriorityThisWeek:
		return "🔄"
	default:
		return "📅"
	}
}

// StepsFor filters steps to one priority, keeping their order.
func StepsFor(steps []health.NextStep, priority string) []health.NextStep {
	var out []health.NextStep
	for _, s := range steps {
		if s.Priority == priority {
			out = append(out, s)
		}
	}
	return out
}

// Markdown renders the analysis as a Markdown report. verbose adds the
// statistics table.
func Markdown(res *Result, verbose bool) string {
	var out []string

	out = append(out, "# Project Health Analysis")
	out = append(out, fmt.Sprintf("\n**Generated:** %s\n", res.GeneratedAt.Format(time.DateTime)))

	h := res.Recs.Health
	out = append(out,
		"## 📈 Project Health\n",
		fmt.Sprintf("**Overall Score:** %d/100 (%s)\n", h.Overall, h.Summary),
		"| Metric | Score |",
		"|--------|-------|",
		fmt.Sprintf("| Velocity | %d/100 |", h.Velocity),
		fmt.Sprintf("| Quality | %d/100 |", h.Quality),
		fmt.Sprintf("| Blockers | %d/100 |", h.Blockers),
		fmt.Sprintf("| Activity | %d/100 |", h.Activity),
		"",
	)

	if verbose {
		out = append(out,
			"## 📊 Statistics\n",
			"| Metric | Value |",
			"|--------|-------|",
			fmt.Sprintf("| Files | %d |", res.Code.FileCount),
			fmt.Sprintf("| Lines of Code | %s |", GroupDigits(res.Code.LineCount)),
			fmt.Sprintf("| Python Files | %d |", res.Code.PythonFiles),
			fmt.Sprintf("| JavaScript Files | %d |", res.Code.JavaScriptFiles),
			fmt.Sprintf("| TODO Markers | %d |", len(res.Code.Todos)),
			fmt.Sprintf("| FIXME Markers | %d |", len(res.Code.Fixmes)),
		)
		if c := res.Tests.Coverage; c != nil && *c != 0 {
			out = append(out, fmt.Sprintf("| Test Coverage | %s%% |", formatFloat(*c)))
		}
		out = append(out, fmt.Sprintf("| Test Files | %d |", res.Tests.TestCount))
		if res.Git.IsRepo {
			out = append(out,
				fmt.Sprintf("| Commits (7d) | %d |", res.Git.Commits7d),
				fmt.Sprintf("| Commits (30d) | %d |", res.Git.Commits30d),
				fmt.Sprintf("| Commits/Day | %s |", formatFloat(res.Git.CommitsPerDay)),
			)
		}
		out = append(out, "")
	}

	if len(res.Recs.Blockers) > 0 {
		out = append(out, "## 🔴 Blockers & Risks\n")
		for _, b := range res.Recs.Blockers {
			out = append(out,
				fmt.Sprintf("### %s\n", b.Title),
				fmt.Sprintf("- **Impact:** %s", b.Impact),
				fmt.Sprintf("- **Source:** %s", b.Source),
			)
			if b.Details != "" {
				out = append(out, fmt.Sprintf("- **Details:** %s", b.Details))
			}
			out = append(out, "")
		}
	}

	if len(res.Recs.Gaps) > 0 {
		out = append(out, "## 🔍 Gaps Detected\n")
		for _, g := range res.Recs.Gaps {
			icon := "⚠️"
			if g.Severity == "high" {
				icon = "🔴"
			}
			out = append(out, fmt.Sprintf("- %s **%s:** %s", icon, g.Category, g.Description))
		}
		out = append(out, "")
	}

	if len(res.Recs.NextSteps) > 0 {
		out = append(out, "## 💡 Recommended Next Steps\n")
		for _, priority := range priorityOrder {
			steps := StepsFor(res.Recs.NextSteps, priority)
			if len(steps) == 0 {
				continue
			}
			out = append(out, fmt.Sprintf("### %s %s\n", PriorityIcon(priority), priority))
			for _, s := range steps {
				out = append(out,
					fmt.Sprintf("%d. **%s**", s.Order, s.Action),
					fmt.Sprintf("   - **Rationale:** %s", s.Rationale),
					fmt.Sprintf("   - **Impact:** %s", s.Impact),
					fmt.Sprintf("   - **Effort:** %s", s.Effort),
					"",
				)
			}
		}
	}

	return strings.Join(out, "\n")
}

// GroupDigits formats n with thousands separators, e.g. 1234567 -> 1,234,567.
func GroupDigits(n int) string {
	if n < 0 {
		return "-" + GroupDigits(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
