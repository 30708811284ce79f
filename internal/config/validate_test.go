package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_CleanConfig(t *testing.T) {
	cfg := Config{
		ProjectName:  "Spoon",
		ProjectCode:  "spoon-api_2",
		DefaultAgent: "claude",
		Backend:      "python",
		Frontend:     "nextjs",
	}
	assert.Nil(t, Validate(&cfg))
}

func TestValidate_ZeroConfigIsValid(t *testing.T) {
	cfg := Config{}
	assert.Nil(t, Validate(&cfg))
}

func TestValidate_NoneFrameworks(t *testing.T) {
	cfg := Config{Backend: "none", Frontend: "none"}
	assert.Nil(t, Validate(&cfg))
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantPath string
	}{
		{"bad slug", Config{ProjectCode: "has spaces"}, "project_code"},
		{"slug punctuation", Config{ProjectCode: "a.b"}, "project_code"},
		{"unknown agent", Config{DefaultAgent: "emacs"}, "default_agent"},
		{"unknown backend", Config{Backend: "rails"}, "backend"},
		{"unknown frontend", Config{Frontend: "angular"}, "frontend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate(&tt.cfg)
			assert.Len(t, issues, 1)
			assert.Equal(t, tt.wantPath, issues[0].Path)
			assert.NotEmpty(t, issues[0].String())
		})
	}
}

func TestValidateNextstep_DefaultsAreValid(t *testing.T) {
	cfg := NextstepDefaults("claude")
	assert.Nil(t, ValidateNextstep(&cfg))
}

func TestValidateNextstep_Issues(t *testing.T) {
	base := NextstepDefaults("claude")

	coverage := base
	coverage.Analysis.CoverageThreshold = 150
	issues := ValidateNextstep(&coverage)
	assert.Len(t, issues, 1)
	assert.Equal(t, "analysis.coverage_threshold", issues[0].Path)

	days := base
	days.Analysis.StalePRDays = -1
	issues = ValidateNextstep(&days)
	assert.Len(t, issues, 1)
	assert.Equal(t, "analysis.stale_pr_days", issues[0].Path)

	weights := base
	weights.HealthWeights.Velocity = 0.6
	issues = ValidateNextstep(&weights)
	assert.Len(t, issues, 1)
	assert.Equal(t, "health_weights", issues[0].Path)

	gh := base
	gh.GitHub.Enabled = true
	issues = ValidateNextstep(&gh)
	assert.Len(t, issues, 1)
	assert.Equal(t, "github.repo", issues[0].Path)
}
