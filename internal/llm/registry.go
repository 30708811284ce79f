package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/x100-tools/x100/internal/logging"
)

// ProviderError is returned when a provider fails or cannot be resolved.
type ProviderError struct {
	Provider string
	Message  string
	Code     int // exit code when the CLI failed, 0 otherwise
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Registry manages providers and resolves agent names to clients.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client // provider name → client
	aliases  map[string]string // agent alias → provider name
	fallback string            // default provider name
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		aliases: make(map[string]string),
		log:     log.Sub("llm.registry"),
	}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Info().Str("provider", name).Msg("registered provider")
}

// Alias maps an alternate name to a provider, so that for example a tool's
// CLI command resolves the same as its agent key.
func (r *Registry) Alias(alias, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = provider
}

// SetFallback sets the provider used when no name matches.
func (r *Registry) SetFallback(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = provider
}

// Resolve returns the client for the given agent name. Resolution order:
// exact provider name, alias, fallback. A miss returns a *ProviderError.
func (r *Registry) Resolve(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}

	if provider, ok := r.aliases[name]; ok {
		if c, ok := r.clients[provider]; ok {
			return c, nil
		}
	}

	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}

	return nil, &ProviderError{Provider: name, Message: "no provider available"}
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// analysisProviders lists the agents with a nextstep analysis invocation, in
// fallback priority order.
var analysisProviders = []struct {
	key string
	new func(*logging.Logger) *CLIClient
}{
	{"claude", NewClaudeClient},
	{"copilot", NewCopilotClient},
	{"gemini", NewGeminiClient},
}

// NewRegistryFromTools detects which analysis-capable agent CLIs are
// installed and registers a provider for each. The first one found becomes
// the fallback. An empty registry is valid: callers fall back to rule-based
// analysis.
func NewRegistryFromTools(log *logging.Logger) *Registry {
	reg := NewRegistry(log)
	first := true
	for _, p := range analysisProviders {
		if !CLIExists(p.key) {
			continue
		}
		reg.Register(p.key, p.new(log))
		if first {
			reg.SetFallback(p.key)
			first = false
		}
	}
	return reg
}
