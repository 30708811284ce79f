package llm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/x100-tools/x100/internal/logging"
)

// CLIConfig configures a CLI-based provider.
type CLIConfig struct {
	// Command is the CLI binary name (e.g., "claude", "gemini").
	Command string

	// ProviderName is the display name for this provider.
	ProviderName string

	// Args turns the prompt into CLI arguments. Nil means no arguments,
	// which only makes sense together with PromptViaStdin.
	Args func(prompt string) []string

	// PromptViaStdin pipes the prompt to the CLI's stdin instead of (or in
	// addition to) passing it as an argument.
	PromptViaStdin bool

	// Timeout bounds one invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// CLIClient wraps any agent CLI as a provider.
type CLIClient struct {
	cfg CLIConfig
	log *logging.Logger
}

// NewCLIClient creates a provider from the given CLI configuration.
func NewCLIClient(cfg CLIConfig, log *logging.Logger) *CLIClient {
	return &CLIClient{cfg: cfg, log: log.Sub("llm." + cfg.ProviderName)}
}

// Name returns the provider name.
func (c *CLIClient) Name() string { return c.cfg.ProviderName }

// Complete runs the CLI synchronously and returns its trimmed stdout.
func (c *CLIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var args []string
	if c.cfg.Args != nil {
		args = c.cfg.Args(req.Prompt)
	}

	c.log.Debug().
		Str("cmd", c.cfg.Command).
		Int("promptLen", len(req.Prompt)).
		Msg("running completion")

	start := time.Now()

	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	if c.cfg.PromptViaStdin {
		cmd.Stdin = strings.NewReader(req.Prompt)
	}

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ProviderError{
				Provider: c.cfg.ProviderName,
				Message:  fmt.Sprintf("%s timed out after %s", c.cfg.Command, timeout),
			}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			return nil, fmt.Errorf("%s exited %d: %s", c.cfg.Command, exitErr.ExitCode(), stderr)
		}
		return nil, fmt.Errorf("%s: %w", c.cfg.Command, err)
	}

	resp := &CompletionResponse{
		Content:  strings.TrimSpace(string(out)),
		Duration: time.Since(start),
	}

	c.log.Debug().
		Dur("duration", resp.Duration).
		Int("contentLen", len(resp.Content)).
		Msg("completion done")

	return resp, nil
}

// CLIExists checks whether a CLI command is available in PATH.
func CLIExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
