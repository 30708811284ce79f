package nextstep

import (
	"encoding/json"
	"time"
)

// The report structs pin down the exact JSON shape: keys stay present with
// empty or null values so downstream consumers can rely on them.

type jsonHealth struct {
	Overall  int    `json:"overall"`
	Summary  string `json:"summary"`
	Velocity int    `json:"velocity"`
	Quality  int    `json:"quality"`
	Blockers int    `json:"blockers"`
	Activity int    `json:"activity"`
	Trend    string `json:"trend"`
}

type jsonBlocker struct {
	Title   string `json:"title"`
	Impact  string `json:"impact"`
	Source  string `json:"source"`
	Details string `json:"details"`
}

type jsonGap struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	File        *string `json:"file"`
}

type jsonStep struct {
	Priority  string `json:"priority"`
	Order     int    `json:"order"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
	Impact    string `json:"impact"`
	Effort    string `json:"effort"`
}

type jsonCodeStats struct {
	Files           int `json:"files"`
	Lines           int `json:"lines"`
	PythonFiles     int `json:"python_files"`
	JavaScriptFiles int `json:"javascript_files"`
	Todos           int `json:"todos"`
	Fixmes          int `json:"fixmes"`
}

type jsonTestStats struct {
	Coverage      *float64 `json:"coverage"`
	TestFiles     int      `json:"test_files"`
	UntestedFiles int      `json:"untested_files"`
}

type jsonGitStats struct {
	Commits7d     int     `json:"commits_7d"`
	Commits30d    int     `json:"commits_30d"`
	CommitsPerDay float64 `json:"commits_per_day"`
	Contributors  int     `json:"contributors"`
	LastCommit    *string `json:"last_commit"`
}

type jsonStats struct {
	Code  jsonCodeStats `json:"code"`
	Tests jsonTestStats `json:"tests"`
	Git   *jsonGitStats `json:"git"`
}

type jsonReport struct {
	Timestamp string        `json:"timestamp"`
	Health    jsonHealth    `json:"health_score"`
	Blockers  []jsonBlocker `json:"blockers"`
	Gaps      []jsonGap     `json:"gaps"`
	NextSteps []jsonStep    `json:"next_steps"`
	Stats     *jsonStats    `json:"statistics,omitempty"`
}

// JSON renders the analysis as indented JSON. verbose adds the statistics
// block; its git section is null outside a repository.
func JSON(res *Result, verbose bool) (string, error) {
	h := res.Recs.Health
	report := jsonReport{
		Timestamp: res.GeneratedAt.Format(time.RFC3339),
		Health: jsonHealth{
			Overall:  h.Overall,
			Summary:  h.Summary,
			Velocity: h.Velocity,
			Quality:  h.Quality,
			Blockers: h.Blockers,
			Activity: h.Activity,
			Trend:    h.Trend,
		},
		Blockers:  make([]jsonBlocker, 0, len(res.Recs.Blockers)),
		Gaps:      make([]jsonGap, 0, len(res.Recs.Gaps)),
		NextSteps: make([]jsonStep, 0, len(res.Recs.NextSteps)),
	}

	for _, b := range res.Recs.Blockers {
		report.Blockers = append(report.Blockers, jsonBlocker{
			Title:   b.Title,
			Impact:  b.Impact,
			Source:  b.Source,
			Details: b.Details,
		})
	}
	for _, g := range res.Recs.Gaps {
		jg := jsonGap{Category: g.Category, Description: g.Description, Severity: g.Severity}
		if g.File != "" {
			file := g.File
			jg.File = &file
		}
		report.Gaps = append(report.Gaps, jg)
	}
	for _, s := range res.Recs.NextSteps {
		report.NextSteps = append(report.NextSteps, jsonStep{
			Priority:  s.Priority,
			Order:     s.Order,
			Action:    s.Action,
			Rationale: s.Rationale,
			Impact:    s.Impact,
			Effort:    s.Effort,
		})
	}

	if verbose {
		report.Stats = buildStats(res)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func buildStats(res *Result) *jsonStats {
	stats := &jsonStats{
		Code: jsonCodeStats{
			Files:           res.Code.FileCount,
			Lines:           res.Code.LineCount,
			PythonFiles:     res.Code.PythonFiles,
			JavaScriptFiles: res.Code.JavaScriptFiles,
			Todos:           len(res.Code.Todos),
			Fixmes:          len(res.Code.Fixmes),
		},
		Tests: jsonTestStats{
			Coverage:      res.Tests.Coverage,
			TestFiles:     res.Tests.TestCount,
			UntestedFiles: len(res.Tests.UntestedFiles),
		},
	}

	if res.Git.IsRepo {
		git := &jsonGitStats{
			Commits7d:     res.Git.Commits7d,
			Commits30d:    res.Git.Commits30d,
			CommitsPerDay: res.Git.CommitsPerDay,
			Contributors:  res.Git.Contributors,
		}
		if !res.Git.LastCommitAt.IsZero() {
			last := res.Git.LastCommitAt.Format(time.RFC3339)
			git.LastCommit = &last
		}
		stats.Git = git
	}
	return stats
}
