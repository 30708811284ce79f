package domain

// TemplateKind separates slash-command prompts from subagent definitions.
type TemplateKind string

const (
	KindCommand TemplateKind = "command"
	KindAgent   TemplateKind = "agent"
)

// Subdir returns the directory name the kind lives under inside an agent
// folder, e.g. .claude/commands or .claude/agents.
func (k TemplateKind) Subdir() string {
	return string(k) + "s"
}

// TemplateStatus reports whether a template is copied into the project's
// agent folder or only shipped with the binary.
type TemplateStatus string

const (
	StatusActive    TemplateStatus = "active"
	StatusAvailable TemplateStatus = "available"
)

// Template is one prompt-template markdown file.
type Template struct {
	Name string `json:"name"`
	// File is the markdown filename stem. It differs from Name when agent
	// frontmatter overrides the display name; enable and disable key on it.
	File        string         `json:"file"`
	Description string         `json:"description,omitempty"`
	Kind        TemplateKind   `json:"kind"`
	Status      TemplateStatus `json:"status"`
}

// WorkflowCommands lists the command templates that make up the guided
// development workflow. workflow-enable activates exactly this set.
var WorkflowCommands = []string{"start", "spec", "code", "review", "test", "done", "workflow"}

// WorkflowAgents lists the subagents the workflow commands delegate to.
var WorkflowAgents = []string{"spec-writer", "code-implementer", "test-writer", "workflow-orchestrator"}
