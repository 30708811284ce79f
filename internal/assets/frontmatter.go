package assets

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the metadata block at the top of a template file.
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Globs       string `yaml:"globs"`
}

// ParseFrontmatter extracts the leading YAML block fenced by --- lines.
// Missing or unreadable frontmatter yields the zero value; listings show a
// blank description rather than failing.
func ParseFrontmatter(data []byte) Frontmatter {
	var meta Frontmatter

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return meta
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return Frontmatter{}
	}
	return meta
}

// Summarize shortens an agent description for one-line listings: over 80
// runes it is cut with an ellipsis, otherwise trimmed to the first sentence.
func Summarize(desc string) string {
	if desc == "" {
		return ""
	}
	runes := []rune(desc)
	if len(runes) > 80 {
		return string(runes[:80]) + "..."
	}
	if idx := strings.Index(desc, "."); idx >= 0 {
		return desc[:idx+1]
	}
	return desc
}
