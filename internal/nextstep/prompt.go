package nextstep

import (
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/x100-tools/x100/internal/gitstats"
	"github.com/x100-tools/x100/internal/scan"
)

// analysisPromptText is the prompt sent to the agent CLI. The data is
// precomputed into promptData so the template stays declarative.
const analysisPromptText = `# Project Analysis Request

You are an AI Project Manager/Tech Lead. Analyze the following project data and provide actionable recommendations.

## Codebase Metrics
- Total files: {{.Code.FileCount}}
- Total lines: {{.Code.LineCount}}
- TODO markers: {{len .Code.Todos}}
- FIXME markers: {{len .Code.Fixmes}}

## Git Activity
{{- if .Git.IsRepo}}
- Commits (last 7 days): {{.Git.Commits7d}}
- Commits (last 30 days): {{.Git.Commits30d}}
- Commits per day: {{printf "%.2f" .Git.CommitsPerDay}}
- Active branches: {{.Git.ActiveBranches}}
- Contributors: {{.Git.Contributors}}
- Last commit: {{.LastCommit}}
{{- else}}
- Not a git repository
{{- end}}

## Test Coverage
- Coverage: {{.Coverage}}
{{- if .Untested}}
- Untested files: {{.Untested}}
{{- end}}
{{- if .HighRisk}}
- High-risk untested files:
{{- range .HighRisk}}
  * {{.}}
{{- end}}
{{- end}}
{{- if .Stories}}

## User Stories
- Total stories: {{.Stories.Total}}
{{- if .Stories.DoneNoImpl}}
- Stories marked done without implementation: {{.Stories.DoneNoImpl}}
{{- end}}
{{- end}}

## Documentation Status
- Has README: {{.Docs.HasReadme}}
- Has LICENSE: {{.Docs.HasLicense}}
- Has CHANGELOG: {{.Docs.HasChangelog}}
{{- if .Docs.OutdatedDocs}}
- Docs with TODO/TBD: {{len .Docs.OutdatedDocs}}
{{- end}}

## Request

Based on this data, provide:
1. Top 3 most critical issues or blockers
2. Top 3 recommended next steps (prioritized)
3. Overall project health assessment (0-100 score)
4. Key risks or concerns

Keep responses concise and actionable. Focus on immediate priorities.`

var analysisTemplate = template.Must(template.New("analysis").Parse(analysisPromptText))

// highRiskKeywords flag untested files worth naming in the prompt.
var highRiskKeywords = []string{"auth", "payment", "security", "api"}

type storySummary struct {
	Total      int
	DoneNoImpl int
}

type promptData struct {
	Code       scan.CodeReport
	Git        gitstats.Report
	LastCommit string
	Coverage   string
	Untested   int
	HighRisk   []string
	Stories    *storySummary
	Docs       scan.DocsReport
}

// buildPrompt renders the analysis prompt for one run.
func buildPrompt(res *Result) (string, error) {
	data := promptData{
		Code:       res.Code,
		Git:        res.Git,
		LastCommit: "unknown",
		Coverage:   "Not available",
		Untested:   len(res.Tests.UntestedFiles),
		HighRisk:   highRiskFiles(res.Tests.UntestedFiles, 5),
		Docs:       res.Docs,
	}
	if !res.Git.LastCommitAt.IsZero() {
		data.LastCommit = res.Git.LastCommitAt.Format(time.DateTime)
	}
	if res.Tests.Coverage != nil {
		data.Coverage = formatFloat(*res.Tests.Coverage) + "%"
	}
	if len(res.Stories) > 0 {
		data.Stories = summarizeStories(res.Stories)
	}

	var b strings.Builder
	if err := analysisTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// highRiskFiles returns the basenames of up to limit untested files whose
// path mentions a sensitive area.
func highRiskFiles(files []string, limit int) []string {
	var names []string
	for _, f := range files {
		lower := strings.ToLower(f)
		for _, kw := range highRiskKeywords {
			if strings.Contains(lower, kw) {
				names = append(names, filepath.Base(f))
				break
			}
		}
		if len(names) == limit {
			break
		}
	}
	return names
}

func summarizeStories(stories []scan.StoryStatus) *storySummary {
	sum := &storySummary{Total: len(stories)}
	for _, s := range stories {
		if s.Status == "done" && !s.HasImplementation {
			sum.DoneNoImpl++
		}
	}
	return sum
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
