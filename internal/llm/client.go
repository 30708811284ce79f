// Package llm wraps installed AI agent CLIs as completion providers.
//
// Instead of direct HTTP API clients, each provider shells out to an agent's
// own CLI (claude, copilot, gemini). This reuses the auth and rate-limit
// handling each CLI already carries and keeps x100 current with API changes
// via ordinary CLI updates. Responses are displayed, never parsed for
// structure, except by the story converter which asks for JSON explicitly.
package llm

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single analysis completion.
const DefaultTimeout = 60 * time.Second

// ConversionTimeout bounds one story conversion batch, which carries up to
// ten markdown files in a single prompt.
const ConversionTimeout = 10 * time.Minute

// CompletionRequest is the input to a Complete call.
type CompletionRequest struct {
	Prompt string
}

// CompletionResponse is the CLI's trimmed stdout.
type CompletionResponse struct {
	Content  string
	Duration time.Duration
}

// Client is the interface all providers implement.
type Client interface {
	// Complete sends a prompt and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "claude", "gemini").
	Name() string
}
