package scan

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// TodoItem is a TODO or FIXME marker found in code.
type TodoItem struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Kind    string `json:"kind"` // "TODO" or "FIXME"
	AgeDays int    `json:"age_days,omitempty"`
}

// CodeReport summarizes the codebase.
type CodeReport struct {
	FileCount       int        `json:"file_count"`
	LineCount       int        `json:"line_count"`
	PythonFiles     int        `json:"python_files"`
	JavaScriptFiles int        `json:"javascript_files"`
	OtherFiles      int        `json:"other_files"`
	Todos           []TodoItem `json:"todos"`
	Fixmes          []TodoItem `json:"fixmes"`
}

var (
	todoPattern  = regexp.MustCompile(`(?i)#\s*TODO:?\s*(.+)|//\s*TODO:?\s*(.+)`)
	fixmePattern = regexp.MustCompile(`(?i)#\s*FIXME:?\s*(.+)|//\s*FIXME:?\s*(.+)`)
)

var jsExtensions = map[string]bool{".js": true, ".jsx": true, ".ts": true, ".tsx": true}

// Codebase walks the project and reports code files, line counts, and
// TODO/FIXME markers.
func Codebase(root string) CodeReport {
	var report CodeReport

	walkFiles(root, func(rel string) {
		ext := filepath.Ext(rel)
		if !codeExtensions[ext] {
			return
		}

		report.FileCount++
		switch {
		case ext == ".py":
			report.PythonFiles++
		case jsExtensions[ext]:
			report.JavaScriptFiles++
		default:
			report.OtherFiles++
		}

		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return
		}
		report.LineCount += countLines(data)

		for num, line := range strings.Split(string(data), "\n") {
			if m := todoPattern.FindStringSubmatch(line); m != nil {
				report.Todos = append(report.Todos, TodoItem{
					File: rel,
					Line: num + 1,
					Text: strings.TrimSpace(firstGroup(m)),
					Kind: "TODO",
				})
			}
			if m := fixmePattern.FindStringSubmatch(line); m != nil {
				report.Fixmes = append(report.Fixmes, TodoItem{
					File: rel,
					Line: num + 1,
					Text: strings.TrimSpace(firstGroup(m)),
					Kind: "FIXME",
				})
			}
		}
	})

	return report
}

// firstGroup returns the first non-empty capture, covering both the # and //
// comment alternatives.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
