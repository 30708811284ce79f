package scan

import (
	"encoding/xml"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TestReport summarizes test files and coverage. Coverage is nil when no
// coverage artifact was found.
type TestReport struct {
	Coverage      *float64 `json:"coverage_percentage"`
	TestCount     int      `json:"test_count"`
	TestFiles     []string `json:"test_files"`
	UntestedFiles []string `json:"untested_files"`
}

// Tests finds test files, reads coverage artifacts, and lists Python sources
// without a counterpart test.
func Tests(root string) TestReport {
	var report TestReport

	walkFiles(root, func(rel string) {
		if isTestFile(rel) {
			report.TestFiles = append(report.TestFiles, rel)
			return
		}
		if untestedPython(root, rel) {
			report.UntestedFiles = append(report.UntestedFiles, rel)
		}
	})

	report.TestCount = len(report.TestFiles)
	report.Coverage = coveragePercentage(root)
	return report
}

// isTestFile matches the test naming conventions across the stacks the
// scanner knows about.
func isTestFile(rel string) bool {
	base := filepath.Base(rel)
	switch {
	case strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"):
		return true
	case strings.HasSuffix(base, "_test.py"):
		return true
	case strings.HasSuffix(base, "_test.go"):
		return true
	case strings.HasSuffix(base, ".test.js"), strings.HasSuffix(base, ".test.ts"), strings.HasSuffix(base, ".test.tsx"):
		return true
	case strings.HasSuffix(base, ".spec.js"), strings.HasSuffix(base, ".spec.ts"), strings.HasSuffix(base, ".spec.tsx"):
		return true
	}
	return strings.HasSuffix(base, ".py") && pathHasSegment(rel, "tests")
}

// untestedPython reports whether rel is a Python source with no counterpart
// test file in the usual locations.
func untestedPython(root, rel string) bool {
	base := filepath.Base(rel)
	if !strings.HasSuffix(base, ".py") || base == "__init__.py" {
		return false
	}

	stem := strings.TrimSuffix(base, ".py")
	parent := filepath.Dir(filepath.Join(root, rel))
	candidates := []string{
		filepath.Join(parent, "test_"+stem+".py"),
		filepath.Join(parent, stem+"_test.py"),
		filepath.Join(parent, "tests", "test_"+stem+".py"),
		filepath.Join(filepath.Dir(parent), "tests", filepath.Base(parent), "test_"+stem+".py"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return false
		}
	}
	return true
}

// coverageXML is the slice of a Cobertura report the scanner reads.
type coverageXML struct {
	LineRate string `xml:"line-rate,attr"`
}

// coveragePercentage reads coverage.xml (Cobertura line-rate) or a Go
// coverage.out profile, whichever exists.
func coveragePercentage(root string) *float64 {
	if data, err := os.ReadFile(filepath.Join(root, "coverage.xml")); err == nil {
		var doc coverageXML
		if xml.Unmarshal(data, &doc) == nil && doc.LineRate != "" {
			if rate, err := strconv.ParseFloat(doc.LineRate, 64); err == nil {
				pct := math.Round(rate*1000) / 10
				return &pct
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "coverage.out")); err == nil {
		if pct, ok := parseGoProfile(string(data)); ok {
			return &pct
		}
	}

	return nil
}

// parseGoProfile computes statement coverage from a Go cover profile:
// each body line is "file:start,end numstmt count".
func parseGoProfile(content string) (float64, bool) {
	var total, covered int
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (i == 0 && strings.HasPrefix(line, "mode:")) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		stmts, err1 := strconv.Atoi(fields[1])
		count, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			continue
		}
		total += stmts
		if count > 0 {
			covered += stmts
		}
	}
	if total == 0 {
		return 0, false
	}
	return math.Round(float64(covered)/float64(total)*1000) / 10, true
}
