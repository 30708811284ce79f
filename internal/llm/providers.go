package llm

import (
	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/logging"
)

// Argument builders for the analysis providers. Separate functions so tests
// can pin the exact invocations.

func claudeAnalysisArgs(prompt string) []string {
	return []string{"chat", "-m", prompt}
}

func copilotAnalysisArgs(prompt string) []string {
	return []string{"-p", prompt, "--allow-all-tools"}
}

func geminiAnalysisArgs(prompt string) []string {
	return []string{"chat", prompt}
}

// NewClaudeClient wraps the Claude Code CLI for analysis prompts.
func NewClaudeClient(log *logging.Logger) *CLIClient {
	return NewCLIClient(CLIConfig{
		Command:      "claude",
		ProviderName: "claude",
		Args:         claudeAnalysisArgs,
	}, log)
}

// NewCopilotClient wraps the GitHub Copilot CLI for analysis prompts.
func NewCopilotClient(log *logging.Logger) *CLIClient {
	return NewCLIClient(CLIConfig{
		Command:      "copilot",
		ProviderName: "copilot",
		Args:         copilotAnalysisArgs,
	}, log)
}

// NewGeminiClient wraps the Gemini CLI for analysis prompts.
func NewGeminiClient(log *logging.Logger) *CLIClient {
	return NewCLIClient(CLIConfig{
		Command:      "gemini",
		ProviderName: "gemini",
		Args:         geminiAnalysisArgs,
	}, log)
}

// NewConversionClient wraps an agent CLI for story conversion prompts. The
// flag shape differs per tool; claude reads the prompt from stdin. Agents
// whose CLIs have no known non-interactive invocation return a
// *ProviderError.
func NewConversionClient(tool domain.AgentTool, log *logging.Logger) (*CLIClient, error) {
	cfg := CLIConfig{
		Command:      tool.CLI(),
		ProviderName: tool.Key,
		Timeout:      ConversionTimeout,
	}

	switch tool.Key {
	case "copilot":
		cfg.Args = func(prompt string) []string {
			return []string{"--prompt", prompt, "--allow-all-tools"}
		}
	case "claude":
		cfg.PromptViaStdin = true
	case "gemini", "qwen":
		cfg.Args = func(prompt string) []string {
			return []string{prompt}
		}
	case "opencode", "codex", "auggie", "codebuddy", "amp", "shai":
		cfg.Args = func(prompt string) []string {
			return []string{"--prompt", prompt}
		}
	case "q":
		cfg.Args = func(prompt string) []string {
			return []string{"generate", "--prompt", prompt}
		}
	default:
		return nil, &ProviderError{
			Provider: tool.Key,
			Message:  "agent has no supported conversion invocation",
		}
	}

	return NewCLIClient(cfg, log), nil
}
