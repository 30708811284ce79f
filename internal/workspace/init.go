package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/x100-tools/x100/internal/assets"
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/fsutil"
)

// Status classifies the outcome of one init or verify check.
type Status string

const (
	StatusOK      Status = "OK"      // already in the expected state
	StatusCreated Status = "CREATED" // was missing, now set up
	StatusMissing Status = "MISS"    // missing and not created
	StatusFailed  Status = "FAIL"    // could not be checked or created
)

// Check is one line of an init or verify report.
type Check struct {
	Status Status
	Label  string
	Detail string
}

// AllOK reports whether no check is missing or failed. Created counts as ok.
func AllOK(checks []Check) bool {
	for _, c := range checks {
		if c.Status == StatusMissing || c.Status == StatusFailed {
			return false
		}
	}
	return true
}

// InitOptions parameterize project scaffolding. Options only fill config
// values that are still blank; an existing config is merged, never clobbered.
type InitOptions struct {
	Name     string // project name, defaults to the root directory name
	Code     string // project code slug, defaults to the slugified name
	Backend  string
	Frontend string
	Agent    string // default agent key; an explicit value always wins
	InitGit  bool   // run git init when the root is not a repository
}

// scaffoldDirs are created at the project root during init.
var scaffoldDirs = []string{"src", "docs", "tests", "scripts"}

// seedFiles maps project files to the bundled example each is seeded from.
var seedFiles = []struct{ dst, example string }{
	{"README.md", "README.example.md"},
	{"AGENTS.md", "AGENTS.example.md"},
}

// Init scaffolds the project: the .x100 tree, standard source directories,
// README and AGENTS seeds, an optional git repository, and a merged config.
// Every step reports a Check; a failed step never aborts the rest.
func (w *Workspace) Init(ctx context.Context, opts InitOptions) ([]Check, error) {
	if opts.Code != "" && !validCode(opts.Code) {
		return nil, fmt.Errorf("invalid project code %q: use letters, digits, - or _", opts.Code)
	}
	if opts.Agent != "" {
		if _, err := domain.LookupAgent(opts.Agent); err != nil {
			return nil, err
		}
	}

	var checks []Check

	toolExisted := fsutil.DirExists(w.paths.ToolDir)
	if err := w.paths.EnsureDirs(); err != nil {
		checks = append(checks, Check{StatusFailed, ".x100/", err.Error()})
	} else if toolExisted {
		checks = append(checks, Check{StatusOK, ".x100/", w.paths.ToolDir})
	} else {
		checks = append(checks, Check{StatusCreated, ".x100/", w.paths.ToolDir})
	}

	for _, name := range scaffoldDirs {
		path := filepath.Join(w.paths.Root, name)
		if fsutil.DirExists(path) {
			checks = append(checks, Check{StatusOK, name + "/", path})
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			checks = append(checks, Check{StatusFailed, name + "/", err.Error()})
			continue
		}
		checks = append(checks, Check{StatusCreated, name + "/", path})
	}

	for _, seed := range seedFiles {
		checks = append(checks, w.seedFile(seed.dst, seed.example))
	}

	checks = append(checks, w.ensureGit(ctx, opts.InitGit))
	checks = append(checks, w.mergeConfig(opts)...)

	w.log.Info().Str("root", w.paths.Root).Msg("project initialized")
	return checks, nil
}

// seedFile copies a bundled example into the project root unless the target
// already exists. Existing files are the user's, never overwritten.
func (w *Workspace) seedFile(dst, example string) Check {
	path := filepath.Join(w.paths.Root, dst)
	if fsutil.FileExists(path) {
		return Check{StatusOK, dst, path}
	}

	data, err := assets.ReadExample(example)
	if err != nil {
		return Check{StatusFailed, dst, err.Error()}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Check{StatusFailed, dst, err.Error()}
	}
	return Check{StatusCreated, dst, path + " seeded from bundled example"}
}

// ensureGit detects an existing repository or initializes one. A .git file
// counts as a repository since worktrees and submodules use one.
func (w *Workspace) ensureGit(ctx context.Context, initGit bool) Check {
	dotgit := filepath.Join(w.paths.Root, ".git")
	if _, err := os.Stat(dotgit); err == nil {
		return Check{StatusOK, ".git", "repository detected"}
	}

	if !initGit {
		return Check{StatusMissing, ".git", "not a git repository (init skipped)"}
	}

	if _, err := w.run(ctx, "git", "init", w.paths.Root); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Check{StatusFailed, ".git", "'git' command not found on PATH, install git and re-run"}
		}
		return Check{StatusFailed, ".git", "git init failed: " + err.Error()}
	}
	return Check{StatusCreated, ".git", "initialized empty repository"}
}

// mergeConfig loads the existing config, fills blank fields from the options
// and derived defaults, and writes it back.
func (w *Workspace) mergeConfig(opts InitOptions) []Check {
	var checks []Check

	existed := fsutil.FileExists(w.paths.Config)
	cfg, err := config.Load(w.paths.Config)
	if err != nil {
		// Load already fell back to defaults; flag the broken file since
		// saving below replaces it.
		checks = append(checks, Check{StatusMissing, "config.json", "existing config unreadable, rewriting: " + err.Error()})
	}

	if cfg.ProjectName == "" {
		cfg.ProjectName = opts.Name
		if cfg.ProjectName == "" {
			cfg.ProjectName = filepath.Base(w.paths.Root)
		}
	}
	if cfg.ProjectCode == "" {
		cfg.ProjectCode = opts.Code
		if cfg.ProjectCode == "" {
			cfg.ProjectCode = Slugify(cfg.ProjectName)
		}
	}
	if cfg.Backend == "" {
		cfg.Backend = opts.Backend
	}
	if cfg.Frontend == "" {
		cfg.Frontend = opts.Frontend
	}
	if opts.Agent != "" {
		cfg.DefaultAgent = opts.Agent
	}

	if err := config.Save(w.paths.Config, cfg); err != nil {
		return append(checks, Check{StatusFailed, "config.json", err.Error()})
	}
	if existed {
		return append(checks, Check{StatusOK, "config.json", "configuration saved -> " + w.paths.Config})
	}
	return append(checks, Check{StatusCreated, "config.json", w.paths.Config})
}

// verifyItems are the project entries checked by Verify beyond the workspace
// markers. Dirs missing rate a MISS, not a FAIL, since the project still
// works without them.
var verifyItems = []struct {
	label string
	file  bool
}{
	{"src/", false},
	{"docs/", false},
	{"README.md", true},
	{"AGENTS.md", true},
}

// Verify checks the workspace without changing anything.
func (w *Workspace) Verify() []Check {
	var checks []Check

	if fsutil.DirExists(w.paths.ToolDir) {
		checks = append(checks, Check{StatusOK, ".x100/", w.paths.ToolDir})
	} else {
		checks = append(checks, Check{StatusFailed, ".x100/", "expected at " + w.paths.ToolDir})
	}

	if fsutil.FileExists(w.paths.Config) {
		checks = append(checks, Check{StatusOK, "config.json", w.paths.Config})
	} else {
		checks = append(checks, Check{StatusFailed, "config.json", "expected at " + w.paths.Config + ", run 'x100 init'"})
	}

	dotgit := filepath.Join(w.paths.Root, ".git")
	if _, err := os.Stat(dotgit); err == nil {
		checks = append(checks, Check{StatusOK, ".git", w.paths.Root})
	} else {
		checks = append(checks, Check{StatusFailed, ".git", "not a git repository: " + w.paths.Root})
	}

	for _, item := range verifyItems {
		path := filepath.Join(w.paths.Root, strings.TrimSuffix(item.label, "/"))
		exists := fsutil.DirExists(path)
		if item.file {
			exists = fsutil.FileExists(path)
		}
		if exists {
			checks = append(checks, Check{StatusOK, item.label, path})
		} else {
			checks = append(checks, Check{StatusMissing, item.label, "expected at " + path})
		}
	}

	return checks
}

// Slugify derives a project code from a name: lowercase, spaces to dashes,
// anything else outside [a-z0-9-_] dropped.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
		if !ok {
			return false
		}
	}
	return true
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(string(exitErr.Stderr))
			if msg == "" {
				msg = "unknown error"
			}
			return "", errors.New(msg)
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
