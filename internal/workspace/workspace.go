// Package workspace manages the template files inside a project: enabling
// bundled templates into the agent tool's folder, listing what is active,
// and scaffolding or verifying the project structure.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/x100-tools/x100/internal/assets"
	"github.com/x100-tools/x100/internal/config"
	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/fsutil"
	"github.com/x100-tools/x100/internal/logging"
)

// Workspace operates on one project for one agent tool.
type Workspace struct {
	paths config.Paths
	tool  domain.AgentTool
	run   func(ctx context.Context, name string, args ...string) (string, error)
	log   *logging.Logger
}

// New creates a workspace rooted at the resolved project paths.
func New(paths config.Paths, tool domain.AgentTool, log *logging.Logger) *Workspace {
	return &Workspace{paths: paths, tool: tool, run: runCommand, log: log.Sub("workspace")}
}

// Tool returns the agent tool this workspace writes templates for.
func (w *Workspace) Tool() domain.AgentTool {
	return w.tool
}

// ActiveDir returns the directory enabled templates of the kind live in,
// e.g. <root>/.claude/commands.
func (w *Workspace) ActiveDir(kind domain.TemplateKind) string {
	return filepath.Join(w.paths.Root, w.tool.Folder, kind.Subdir())
}

// EnableCommand copies a bundled command template into the active folder and
// returns the destination path. Re-enabling overwrites with identical content.
func (w *Workspace) EnableCommand(name string) (string, error) {
	return w.enable(domain.KindCommand, name)
}

// EnableAgent copies a bundled agent template into the active folder.
func (w *Workspace) EnableAgent(name string) (string, error) {
	return w.enable(domain.KindAgent, name)
}

// DisableCommand removes an active command template.
func (w *Workspace) DisableCommand(name string) error {
	return w.disable(domain.KindCommand, name)
}

// DisableAgent removes an active agent template.
func (w *Workspace) DisableAgent(name string) error {
	return w.disable(domain.KindAgent, name)
}

func (w *Workspace) enable(kind domain.TemplateKind, name string) (string, error) {
	data, err := assets.Read(kind, name)
	if err != nil {
		return "", err
	}

	dir := w.ActiveDir(kind)
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	dst := filepath.Join(dir, name+".md")
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}

	w.log.Debug().Str("kind", string(kind)).Str("name", name).Msg("template enabled")
	return dst, nil
}

func (w *Workspace) disable(kind domain.TemplateKind, name string) error {
	dir := w.ActiveDir(kind)
	if !fsutil.DirExists(dir) {
		return fmt.Errorf("%s directory not found: %s", kind.Subdir(), dir)
	}

	dst := filepath.Join(dir, name+".md")
	if !fsutil.FileExists(dst) {
		return fmt.Errorf("%s not active: %s", kind, name)
	}

	if err := os.Remove(dst); err != nil {
		return fmt.Errorf("removing %s: %w", dst, err)
	}

	w.log.Debug().Str("kind", string(kind)).Str("name", name).Msg("template disabled")
	return nil
}

// ListCommands returns the bundled command templates with their current
// active status.
func (w *Workspace) ListCommands() ([]domain.Template, error) {
	return w.list(domain.KindCommand)
}

// ListAgents returns the bundled agent templates with their current active
// status.
func (w *Workspace) ListAgents() ([]domain.Template, error) {
	return w.list(domain.KindAgent)
}

// list merges the pool with a fresh read of the active directory; status is
// never cached, so it reflects files added or removed by hand.
func (w *Workspace) list(kind domain.TemplateKind) ([]domain.Template, error) {
	var pool []domain.Template
	var err error
	switch kind {
	case domain.KindAgent:
		pool, err = assets.Agents()
	default:
		pool, err = assets.Commands()
	}
	if err != nil {
		return nil, err
	}

	active := w.activeFiles(kind)
	for i := range pool {
		if active[pool[i].File] {
			pool[i].Status = domain.StatusActive
		}
	}
	return pool, nil
}

// activeFiles returns the markdown filename stems present in the active
// directory. A missing directory means nothing is active.
func (w *Workspace) activeFiles(kind domain.TemplateKind) map[string]bool {
	entries, err := os.ReadDir(w.ActiveDir(kind))
	if err != nil {
		return nil
	}

	files := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files[strings.TrimSuffix(e.Name(), ".md")] = true
		}
	}
	return files
}

// ItemResult is one template of a workflow enable run.
type ItemResult struct {
	Name string
	Kind domain.TemplateKind
	Err  error
}

// EnableWorkflow enables the fixed workflow command and agent sets. A
// template that fails to enable is recorded in its item, not an abort.
func (w *Workspace) EnableWorkflow() []ItemResult {
	results := make([]ItemResult, 0, len(domain.WorkflowCommands)+len(domain.WorkflowAgents))

	for _, name := range domain.WorkflowCommands {
		_, err := w.enable(domain.KindCommand, name)
		results = append(results, ItemResult{Name: name, Kind: domain.KindCommand, Err: err})
	}
	for _, name := range domain.WorkflowAgents {
		_, err := w.enable(domain.KindAgent, name)
		results = append(results, ItemResult{Name: name, Kind: domain.KindAgent, Err: err})
	}

	return results
}
