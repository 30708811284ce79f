// Package scan inspects a project tree: code size and TODO markers, test
// files and coverage, documentation coverage, and user story status. Scans
// walk in lexical order so repeated runs over an unchanged tree produce
// identical reports, and they degrade per file: an unreadable file is
// skipped, never fatal.
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// excludeDirs are directory names whose subtrees are never scanned.
var excludeDirs = map[string]bool{
	".git":          true,
	".venv":         true,
	"venv":          true,
	"node_modules":  true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	"dist":          true,
	"build":         true,
	".next":         true,
	"coverage":      true,
	".coverage":     true,
	".tox":          true,
	"htmlcov":       true,
}

// codeExtensions are the file extensions that count as code.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".go": true, ".java": true, ".rs": true, ".rb": true, ".php": true,
	".c": true, ".cpp": true, ".h": true, ".hpp": true,
}

// walkFiles visits every regular file under root in lexical order, skipping
// excluded directories. The callback receives the path relative to root.
// Unreadable directory entries are skipped.
func walkFiles(root string, fn func(rel string)) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		fn(rel)
		return nil
	})
}

// countLines counts lines the way line iteration does: a trailing fragment
// without a newline still counts as a line.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// pathHasSegment reports whether any path element equals one of names.
func pathHasSegment(rel string, names ...string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		for _, name := range names {
			if seg == name {
				return true
			}
		}
	}
	return false
}
