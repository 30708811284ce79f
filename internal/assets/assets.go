// Package assets ships the template pool compiled into the binary: slash
// command prompts, subagent personas, and the example files init seeds a
// project with.
package assets

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/x100-tools/x100/internal/domain"
)

//go:embed commands/*.md agents/*.md examples/*
var pool embed.FS

// Commands lists the bundled command templates, sorted by name.
func Commands() ([]domain.Template, error) {
	return list(domain.KindCommand)
}

// Agents lists the bundled agent templates, sorted by name. The display name
// and description come from frontmatter when present.
func Agents() ([]domain.Template, error) {
	return list(domain.KindAgent)
}

// ReadCommand returns the raw markdown for a bundled command template.
func ReadCommand(name string) ([]byte, error) {
	return Read(domain.KindCommand, name)
}

// ReadAgent returns the raw markdown for a bundled agent template.
func ReadAgent(name string) ([]byte, error) {
	return Read(domain.KindAgent, name)
}

// Read returns the raw markdown for a bundled template of the given kind.
func Read(kind domain.TemplateKind, name string) ([]byte, error) {
	data, err := pool.ReadFile(string(kind) + "s/" + name + ".md")
	if err != nil {
		return nil, fmt.Errorf("%s template %s not bundled: %w", kind, name, err)
	}
	return data, nil
}

// ReadExample returns a seed file such as README.example.md or
// AGENTS.example.md.
func ReadExample(name string) ([]byte, error) {
	data, err := pool.ReadFile("examples/" + name)
	if err != nil {
		return nil, fmt.Errorf("example %s not bundled: %w", name, err)
	}
	return data, nil
}

// Has reports whether a template with the given kind and name is bundled.
func Has(kind domain.TemplateKind, name string) bool {
	_, err := Read(kind, name)
	return err == nil
}

func list(kind domain.TemplateKind) ([]domain.Template, error) {
	entries, err := pool.ReadDir(string(kind) + "s")
	if err != nil {
		return nil, fmt.Errorf("read bundled %ss: %w", kind, err)
	}

	templates := make([]domain.Template, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		tmpl := domain.Template{
			Name:   name,
			File:   name,
			Kind:   kind,
			Status: domain.StatusAvailable,
		}
		if data, err := pool.ReadFile(string(kind) + "s/" + entry.Name()); err == nil {
			meta := ParseFrontmatter(data)
			if kind == domain.KindAgent {
				if meta.Name != "" {
					tmpl.Name = meta.Name
				}
				tmpl.Description = Summarize(meta.Description)
			} else {
				tmpl.Description = meta.Description
			}
		}
		templates = append(templates, tmpl)
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}
