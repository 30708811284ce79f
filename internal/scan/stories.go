package scan

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// StoryStatus is the analyzed state of one user story file.
type StoryStatus struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Status             string `json:"status"` // "todo", "in-progress", "done"
	FilePath           string `json:"file_path"`
	HasImplementation  bool   `json:"has_implementation"`
	HasTests           bool   `json:"has_tests"`
	AcceptanceCriteria int    `json:"acceptance_criteria_count"`
	Completion         int    `json:"completion_percentage"`
}

var (
	titlePattern      = regexp.MustCompile(`(?m)^#{1,2}\s+(.+)$`)
	acHeadingPattern  = regexp.MustCompile(`(?i)^#+\s*acceptance criteria`)
	headingPattern    = regexp.MustCompile(`^#`)
	checkedPattern    = regexp.MustCompile(`(?i)- \[x\]`)
	uncheckedPattern  = regexp.MustCompile(`- \[ \]`)
	bulletPattern     = regexp.MustCompile(`(?m)^\s*[-*]\s+`)
	checkboxLine      = regexp.MustCompile(`^\s*[-*]\s+\[[ xX]\]`)
	implementationRes = compileAll(
		"`[\\w/]+\\.py`",
		"`[\\w/]+\\.js`",
		"`[\\w/]+\\.ts`",
		"`[\\w/]+\\.go`",
		`implemented in`,
		`code in`,
		`file:.*\.py`,
	)
	testReferenceRes = compileAll(
		`test[_\s]`,
		`spec[_\s]`,
		"`test_[\\w]+\\.py`",
		"`[\\w]+\\.test\\.js`",
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`(?i)` + p)
	}
	return res
}

// Stories analyzes every docs/user-stories/US-*.md file. Unreadable story
// files are skipped.
func Stories(root string) []StoryStatus {
	storiesPath := filepath.Join(root, "docs", "user-stories")
	matches, err := filepath.Glob(filepath.Join(storiesPath, "US-*.md"))
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	var stories []StoryStatus
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		status := extractStatus(content)
		hasImpl := matchesAny(implementationRes, content)
		hasTests := matchesAny(testReferenceRes, content)

		stories = append(stories, StoryStatus{
			ID:                 strings.TrimSuffix(filepath.Base(path), ".md"),
			Title:              extractTitle(content),
			Status:             status,
			FilePath:           rel,
			HasImplementation:  hasImpl,
			HasTests:           hasTests,
			AcceptanceCriteria: countCriteria(content),
			Completion:         completion(status, hasImpl, hasTests),
		})
	}
	return stories
}

func extractTitle(content string) string {
	if m := titlePattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Untitled"
}

// extractStatus resolves a story's state: explicit status markers win, then
// the checkbox ratio in the acceptance criteria section, then prose keywords
// outside checkbox lines. Default is todo.
func extractStatus(content string) string {
	lower := strings.ToLower(content)

	switch {
	case strings.Contains(lower, "status: done"),
		strings.Contains(lower, "status: completed"),
		strings.Contains(content, "✅"):
		return "done"
	case strings.Contains(lower, "status: in progress"),
		strings.Contains(lower, "status: in-progress"):
		return "in-progress"
	case strings.Contains(lower, "status: todo"),
		strings.Contains(lower, "status: not started"):
		return "todo"
	}

	if section := criteriaSection(content); section != "" {
		checked := len(checkedPattern.FindAllString(section, -1))
		unchecked := len(uncheckedPattern.FindAllString(section, -1))
		if total := checked + unchecked; total > 0 {
			switch {
			case checked == total:
				return "done"
			case checked > 0:
				return "in-progress"
			default:
				return "todo"
			}
		}
	}

	var prose []string
	for _, line := range strings.Split(content, "\n") {
		if !checkboxLine.MatchString(line) {
			prose = append(prose, line)
		}
	}
	clean := strings.ToLower(strings.Join(prose, "\n"))
	switch {
	case strings.Contains(clean, "implemented and deployed"),
		strings.Contains(clean, "implementation complete"):
		return "done"
	case strings.Contains(clean, "working on"),
		strings.Contains(clean, "currently implementing"):
		return "in-progress"
	}

	return "todo"
}

// criteriaSection returns the lines from the Acceptance Criteria heading up
// to the next heading.
func criteriaSection(content string) string {
	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		if acHeadingPattern.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if headingPattern.MatchString(lines[i]) {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n")
}

func countCriteria(content string) int {
	section := criteriaSection(content)
	if section == "" {
		return 0
	}
	return len(bulletPattern.FindAllString(section, -1))
}

func matchesAny(res []*regexp.Regexp, content string) bool {
	for _, re := range res {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

// completion scores a story 0-100: done is complete, todo is untouched, and
// in-progress earns 50 plus 30 for implementation and 20 for test references.
func completion(status string, hasImpl, hasTests bool) int {
	switch status {
	case "done":
		return 100
	case "todo":
		return 0
	}

	score := 50
	if hasImpl {
		score += 30
	}
	if hasTests {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}
