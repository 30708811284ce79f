package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const toolDirName = ".x100"

// Paths holds resolved filesystem locations for one project workspace.
type Paths struct {
	Root      string // project root, the directory containing .x100/
	ToolDir   string // <root>/.x100
	Config    string // <root>/.x100/config.json
	Nextstep  string // <root>/.x100/nextstep.json
	Reports   string // <root>/.x100/reports
	HistoryDB string // <root>/.x100/history.db
}

// NotAWorkspaceError is returned when no .x100 workspace is found above the
// starting directory.
type NotAWorkspaceError struct {
	Start string
}

func (e *NotAWorkspaceError) Error() string {
	return fmt.Sprintf("no x100 workspace found from %s upward; run 'x100 init' in your project root", e.Start)
}

// PathsAt returns the workspace paths rooted at the given directory without
// checking that a workspace exists there. init uses this before .x100 is
// created.
func PathsAt(root string) Paths {
	toolDir := filepath.Join(root, toolDirName)
	return Paths{
		Root:      root,
		ToolDir:   toolDir,
		Config:    filepath.Join(toolDir, "config.json"),
		Nextstep:  filepath.Join(toolDir, "nextstep.json"),
		Reports:   filepath.Join(toolDir, "reports"),
		HistoryDB: filepath.Join(toolDir, "history.db"),
	}
}

// ResolvePaths locates the project root by walking up from the working
// directory until a directory containing .x100/config.json is found.
// If X100_ROOT is set it is used as the starting directory instead.
func ResolvePaths() (Paths, error) {
	start := os.Getenv("X100_ROOT")
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Paths{}, err
		}
		start = wd
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return Paths{}, err
	}

	for dir := abs; ; {
		if IsProject(dir) {
			return PathsAt(dir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Paths{}, &NotAWorkspaceError{Start: abs}
		}
		dir = parent
	}
}

// IsProject reports whether dir is an x100 project root, meaning it contains
// .x100/config.json.
func IsProject(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, toolDirName))
	if err != nil || !info.IsDir() {
		return false
	}
	cfg, err := os.Stat(filepath.Join(dir, toolDirName, "config.json"))
	return err == nil && cfg.Mode().IsRegular()
}

// EnsureDirs creates the workspace directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.ToolDir, p.Reports} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// blockedKeys are keys that must never appear in config paths.
var blockedKeys = map[string]bool{
	"__proto__":   true,
	"prototype":   true,
	"constructor": true,
}

// ParseConfigPath splits a dot-separated config path into segments.
// Returns an error if any segment is blocked or empty.
func ParseConfigPath(raw string) ([]string, error) {
	if raw == "" {
		return nil, &ConfigError{Message: "empty config path"}
	}
	parts := strings.Split(raw, ".")
	for _, p := range parts {
		if p == "" {
			return nil, &ConfigError{Message: "config path contains empty segment"}
		}
		if blockedKeys[p] {
			return nil, &ConfigError{Message: "config path contains blocked key: " + p}
		}
	}
	return parts, nil
}

// GetValueAtPath traverses a nested map using the given path segments.
func GetValueAtPath(root map[string]any, path []string) (any, bool) {
	current := any(root)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetValueAtPath sets a value in a nested map, creating intermediate maps as needed.
func SetValueAtPath(root map[string]any, path []string, value any) {
	current := root
	for _, key := range path[:len(path)-1] {
		next, ok := current[key]
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		m, ok := next.(map[string]any)
		if !ok {
			m = map[string]any{}
			current[key] = m
		}
		current = m
	}
	current[path[len(path)-1]] = value
}

// UnsetValueAtPath removes a value at the given path. Returns true if removed.
func UnsetValueAtPath(root map[string]any, path []string) bool {
	current := root
	for _, key := range path[:len(path)-1] {
		next, ok := current[key]
		if !ok {
			return false
		}
		m, ok := next.(map[string]any)
		if !ok {
			return false
		}
		current = m
	}
	last := path[len(path)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}
