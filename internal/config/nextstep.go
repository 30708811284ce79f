package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/x100-tools/x100/internal/domain"
	"github.com/x100-tools/x100/internal/fsutil"
)

// AnalysisConfig holds the thresholds the nextstep analyzers judge against.
type AnalysisConfig struct {
	CoverageThreshold int `json:"coverage_threshold"`
	StaleIssueDays    int `json:"stale_issue_days"`
	StalePRDays       int `json:"stale_pr_days"`
	OldTodoDays       int `json:"old_todo_days"`
	MaxFixmeCount     int `json:"max_fixme_count"`
}

// GitHubConfig controls the optional GitHub integration. TokenEnv names the
// environment variable holding the token; the token itself never lands in a
// file.
type GitHubConfig struct {
	Enabled       bool   `json:"enabled"`
	TokenEnv      string `json:"token_env"`
	Repo          string `json:"repo,omitempty"`
	ProjectNumber int    `json:"project_number,omitempty"`
}

// HealthWeights weight the four health dimensions. They should sum to 1.
type HealthWeights struct {
	Velocity float64 `json:"velocity"`
	Quality  float64 `json:"quality"`
	Blockers float64 `json:"blockers"`
	Activity float64 `json:"activity"`
}

// NextstepConfig is the analysis configuration stored in .x100/nextstep.json.
type NextstepConfig struct {
	DefaultAIAgent string         `json:"default_ai_agent"`
	Analysis       AnalysisConfig `json:"analysis"`
	GitHub         GitHubConfig   `json:"github"`
	HealthWeights  HealthWeights  `json:"health_weights"`
}

// NextstepDefaults returns the default analysis configuration with the given
// AI agent.
func NextstepDefaults(agent string) NextstepConfig {
	if agent == "" {
		agent = domain.DefaultAgentKey
	}
	return NextstepConfig{
		DefaultAIAgent: agent,
		Analysis: AnalysisConfig{
			CoverageThreshold: 80,
			StaleIssueDays:    30,
			StalePRDays:       7,
			OldTodoDays:       30,
			MaxFixmeCount:     10,
		},
		GitHub: GitHubConfig{
			Enabled:  false,
			TokenEnv: "GITHUB_TOKEN",
		},
		HealthWeights: HealthWeights{
			Velocity: 0.2,
			Quality:  0.3,
			Blockers: 0.3,
			Activity: 0.2,
		},
	}
}

// LoadNextstep reads .x100/nextstep.json. A missing file yields defaults
// seeded with defaultAgent. A malformed file also yields plain defaults, with
// the parse error returned so the caller can log a warning; analysis still
// runs either way.
func LoadNextstep(path, defaultAgent string) (NextstepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NextstepDefaults(defaultAgent), nil
		}
		return NextstepDefaults(defaultAgent), err
	}

	// Unmarshal over defaults so absent keys keep their default values.
	cfg := NextstepDefaults(defaultAgent)
	if err := json.Unmarshal(data, &cfg); err != nil {
		return NextstepDefaults(""), &ConfigError{File: path, Message: "invalid JSON: " + err.Error()}
	}
	if cfg.DefaultAIAgent == "" {
		cfg.DefaultAIAgent = defaultAgent
	}
	if cfg.DefaultAIAgent == "" {
		cfg.DefaultAIAgent = domain.DefaultAgentKey
	}
	return cfg, nil
}

// SaveNextstep writes the analysis configuration with two-space indentation.
func SaveNextstep(path string, cfg NextstepConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
