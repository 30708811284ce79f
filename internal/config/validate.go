package config

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/x100-tools/x100/internal/domain"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// projectCodePattern is the slug format: letters, digits, dash, underscore.
var projectCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.ProjectCode != "" && !projectCodePattern.MatchString(cfg.ProjectCode) {
		issues = append(issues, ValidationIssue{
			Path:    "project_code",
			Message: fmt.Sprintf("must be a slug of letters, digits, - or _, got %q", cfg.ProjectCode),
		})
	}

	if cfg.DefaultAgent != "" {
		if _, err := domain.LookupAgent(cfg.DefaultAgent); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    "default_agent",
				Message: fmt.Sprintf("must be one of %v, got %q", domain.AgentKeys(), cfg.DefaultAgent),
			})
		}
	}

	validBackends := []string{"none", "python", "django"}
	if cfg.Backend != "" && !slices.Contains(validBackends, cfg.Backend) {
		issues = append(issues, ValidationIssue{
			Path:    "backend",
			Message: fmt.Sprintf("must be one of %v, got %q", validBackends, cfg.Backend),
		})
	}

	validFrontends := []string{"none", "nextjs"}
	if cfg.Frontend != "" && !slices.Contains(validFrontends, cfg.Frontend) {
		issues = append(issues, ValidationIssue{
			Path:    "frontend",
			Message: fmt.Sprintf("must be one of %v, got %q", validFrontends, cfg.Frontend),
		})
	}

	return issues
}

// ValidateNextstep checks the analysis configuration for issues.
func ValidateNextstep(cfg *NextstepConfig) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Analysis.CoverageThreshold < 0 || cfg.Analysis.CoverageThreshold > 100 {
		issues = append(issues, ValidationIssue{
			Path:    "analysis.coverage_threshold",
			Message: fmt.Sprintf("must be 0-100, got %d", cfg.Analysis.CoverageThreshold),
		})
	}

	dayFields := []struct {
		path string
		days int
	}{
		{"analysis.stale_issue_days", cfg.Analysis.StaleIssueDays},
		{"analysis.stale_pr_days", cfg.Analysis.StalePRDays},
		{"analysis.old_todo_days", cfg.Analysis.OldTodoDays},
	}
	for _, f := range dayFields {
		if f.days < 0 {
			issues = append(issues, ValidationIssue{
				Path:    f.path,
				Message: fmt.Sprintf("must not be negative, got %d", f.days),
			})
		}
	}

	sum := cfg.HealthWeights.Velocity + cfg.HealthWeights.Quality +
		cfg.HealthWeights.Blockers + cfg.HealthWeights.Activity
	if sum < 0.99 || sum > 1.01 {
		issues = append(issues, ValidationIssue{
			Path:    "health_weights",
			Message: fmt.Sprintf("weights should sum to 1.0, got %.2f", sum),
		})
	}

	if cfg.GitHub.Enabled && cfg.GitHub.Repo == "" {
		issues = append(issues, ValidationIssue{
			Path:    "github.repo",
			Message: "required when github.enabled is true",
		})
	}

	return issues
}
