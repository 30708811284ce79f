package domain

import (
	"fmt"
	"sort"
)

// DefaultAgentKey is the agent tool assumed when a project has not picked one.
const DefaultAgentKey = "claude"

// AgentTool describes a supported AI coding agent: where its active template
// folder lives inside a project, and how (or whether) to reach its CLI.
type AgentTool struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Folder     string `json:"folder"`
	InstallURL string `json:"installUrl,omitempty"`
	// RequiresCLI marks tools driven through a command-line binary; IDE-based
	// tools only consume the template folder.
	RequiresCLI bool `json:"requiresCli"`
	// CLICommand is the binary name on PATH. Defaults to Key when empty.
	CLICommand string `json:"cliCommand,omitempty"`
}

// CLI returns the binary name used to invoke the tool.
func (a AgentTool) CLI() string {
	if a.CLICommand != "" {
		return a.CLICommand
	}
	return a.Key
}

// agentTools is the registry of supported tools. Folder is relative to the
// project root; templates are copied into <Folder>/commands and <Folder>/agents.
var agentTools = map[string]AgentTool{
	"copilot": {
		Key:         "copilot",
		Name:        "GitHub Copilot",
		Folder:      ".github",
		RequiresCLI: false,
	},
	"claude": {
		Key:         "claude",
		Name:        "Claude Code",
		Folder:      ".claude",
		InstallURL:  "https://docs.anthropic.com/en/docs/claude-code/setup",
		RequiresCLI: true,
	},
	"gemini": {
		Key:         "gemini",
		Name:        "Gemini CLI",
		Folder:      ".gemini",
		InstallURL:  "https://github.com/google-gemini/gemini-cli",
		RequiresCLI: true,
	},
	"cursor-agent": {
		Key:         "cursor-agent",
		Name:        "Cursor",
		Folder:      ".cursor",
		RequiresCLI: false,
	},
	"qwen": {
		Key:         "qwen",
		Name:        "Qwen Code",
		Folder:      ".qwen",
		InstallURL:  "https://github.com/QwenLM/qwen-code",
		RequiresCLI: true,
	},
	"opencode": {
		Key:         "opencode",
		Name:        "opencode",
		Folder:      ".opencode",
		InstallURL:  "https://opencode.ai",
		RequiresCLI: true,
	},
	"codex": {
		Key:         "codex",
		Name:        "Codex CLI",
		Folder:      ".codex",
		InstallURL:  "https://github.com/openai/codex",
		RequiresCLI: true,
	},
	"windsurf": {
		Key:         "windsurf",
		Name:        "Windsurf",
		Folder:      ".windsurf",
		RequiresCLI: false,
	},
	"kilocode": {
		Key:         "kilocode",
		Name:        "Kilo Code",
		Folder:      ".kilocode",
		RequiresCLI: false,
	},
	"auggie": {
		Key:         "auggie",
		Name:        "Auggie CLI",
		Folder:      ".augment",
		InstallURL:  "https://docs.augmentcode.com/cli/setup-auggie/install-auggie-cli",
		RequiresCLI: true,
	},
	"codebuddy": {
		Key:         "codebuddy",
		Name:        "CodeBuddy",
		Folder:      ".codebuddy",
		InstallURL:  "https://www.codebuddy.ai/cli",
		RequiresCLI: true,
	},
	"roo": {
		Key:         "roo",
		Name:        "Roo Code",
		Folder:      ".roo",
		RequiresCLI: false,
	},
	"q": {
		Key:         "q",
		Name:        "Amazon Q Developer CLI",
		Folder:      ".amazonq",
		InstallURL:  "https://aws.amazon.com/developer/learning/q-developer-cli/",
		RequiresCLI: true,
	},
	"amp": {
		Key:         "amp",
		Name:        "Amp",
		Folder:      ".agents",
		InstallURL:  "https://ampcode.com/manual#install",
		RequiresCLI: true,
	},
	"shai": {
		Key:         "shai",
		Name:        "SHAI",
		Folder:      ".shai",
		InstallURL:  "https://github.com/ovh/shai",
		RequiresCLI: true,
	},
	"bob": {
		Key:         "bob",
		Name:        "IBM Bob",
		Folder:      ".bob",
		RequiresCLI: false,
	},
}

// LookupAgent returns the tool registered under key.
func LookupAgent(key string) (AgentTool, error) {
	tool, ok := agentTools[key]
	if !ok {
		return AgentTool{}, fmt.Errorf("unknown agent %q (known: %v)", key, AgentKeys())
	}
	return tool, nil
}

// AgentKeys returns all registered tool keys, sorted.
func AgentKeys() []string {
	keys := make([]string, 0, len(agentTools))
	for k := range agentTools {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CLIAgents returns the tools that are driven through a CLI binary, sorted by key.
func CLIAgents() []AgentTool {
	var tools []AgentTool
	for _, k := range AgentKeys() {
		if agentTools[k].RequiresCLI {
			tools = append(tools, agentTools[k])
		}
	}
	return tools
}
