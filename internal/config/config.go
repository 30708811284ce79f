// Package config resolves project paths and reads the files under .x100/:
// config.json for project identity and nextstep.json for analysis tuning.
package config

import (
	"fmt"

	"github.com/x100-tools/x100/internal/domain"
)

// ConfigError represents a configuration error. File names the offending
// config file when known so the user can fix it by hand.
type ConfigError struct {
	File    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("config %s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("config: %s", e.Message)
}

// Config is the project configuration stored as flat JSON in
// .x100/config.json. Unknown keys written by other tools survive through the
// raw layer; this struct carries only the keys the CLI reads.
type Config struct {
	ProjectName  string `json:"project_name,omitempty"`
	ProjectCode  string `json:"project_code,omitempty"`
	DefaultAgent string `json:"default_agent,omitempty"`
	Backend      string `json:"backend,omitempty"`
	Frontend     string `json:"frontend,omitempty"`
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		DefaultAgent: domain.DefaultAgentKey,
	}
}

// Agent returns the configured default agent, falling back to the registry
// default when unset.
func (c Config) Agent() string {
	if c.DefaultAgent != "" {
		return c.DefaultAgent
	}
	return domain.DefaultAgentKey
}
