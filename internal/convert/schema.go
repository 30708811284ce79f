package convert

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed github_issue_schema.json
var issueSchema string

// Issue is the JSON shape the agent returns for each user story, mirroring
// the embedded schema.
type Issue struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels,omitempty"`
	IssueType string   `json:"issue_type,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Milestone int      `json:"milestone,omitempty"`
	ProjectID int      `json:"project_id,omitempty"`
}

// schemaPrompt is the instruction block sent ahead of the story contents.
func schemaPrompt() string {
	return fmt.Sprintf(`You must convert the user story to a JSON object that strictly follows this schema:

%s

IMPORTANT INSTRUCTIONS:
1. The output MUST be valid JSON only - no markdown code blocks, no explanations
2. Extract the title from the user story heading or filename
3. Convert the entire user story content to markdown format for the body field
4. Infer appropriate labels from the user story content (e.g., "feature", "bug", "enhancement", "backend", "frontend")
5. Do not include assignees unless explicitly specified in the user story
6. Do not include milestone unless explicitly specified
7. Do not include project_id - it will be added automatically if configured

OUTPUT FORMAT:
Return ONLY the JSON object. Do not wrap it in code blocks or add any explanatory text.

Example output:
{
  "title": "Implement user authentication",
  "body": "## User Story\n\nAs a user...\n\n## Acceptance Criteria\n\n- [ ] ...",
  "labels": ["feature", "security", "backend"]
}`, strings.TrimSpace(issueSchema))
}
