package scan

import (
	"os"
	"path/filepath"
	"strings"
)

// DocsReport summarizes project documentation coverage.
type DocsReport struct {
	HasReadme        bool     `json:"has_readme"`
	HasChangelog     bool     `json:"has_changelog"`
	HasContributing  bool     `json:"has_contributing"`
	HasLicense       bool     `json:"has_license"`
	HasPRD           bool     `json:"has_prd"`
	HasArchitecture  bool     `json:"has_architecture"`
	DocsFolderExists bool     `json:"docs_folder_exists"`
	DocFileCount     int      `json:"doc_file_count"`
	ReadmeLines      int      `json:"readme_lines"`
	OutdatedDocs     []string `json:"outdated_docs"`
}

var licenseNames = []string{"LICENSE", "LICENSE.md", "LICENSE.txt", "COPYING"}

var architectureNames = []string{"ARCHITECTURE.md", "architecture.md", "DESIGN.md", "design.md"}

// Docs checks the standard documentation files and the docs/ folder.
func Docs(root string) DocsReport {
	var report DocsReport
	docsPath := filepath.Join(root, "docs")

	report.HasReadme = fileExists(filepath.Join(root, "README.md"))
	report.HasChangelog = fileExists(filepath.Join(root, "CHANGELOG.md"))
	report.HasContributing = fileExists(filepath.Join(root, "CONTRIBUTING.md"))
	for _, name := range licenseNames {
		if fileExists(filepath.Join(root, name)) {
			report.HasLicense = true
			break
		}
	}

	if info, err := os.Stat(docsPath); err == nil && info.IsDir() {
		report.DocsFolderExists = true
		report.HasPRD = fileExists(filepath.Join(docsPath, "PRD.md"))

		walkFiles(docsPath, func(rel string) {
			if !strings.HasSuffix(rel, ".md") {
				return
			}
			report.DocFileCount++

			data, err := os.ReadFile(filepath.Join(docsPath, rel))
			if err != nil {
				return
			}
			lower := strings.ToLower(string(data))
			if strings.Contains(lower, "todo") || strings.Contains(lower, "fixme") || strings.Contains(lower, "tbd") {
				report.OutdatedDocs = append(report.OutdatedDocs, filepath.Join("docs", rel))
			}
		})
	}

	for _, name := range architectureNames {
		if fileExists(filepath.Join(docsPath, name)) || fileExists(filepath.Join(root, name)) {
			report.HasArchitecture = true
			break
		}
	}

	if report.HasReadme {
		if data, err := os.ReadFile(filepath.Join(root, "README.md")); err == nil {
			report.ReadmeLines = countLines(data)
		}
	}

	return report
}

// Score rates documentation coverage 0-100: essential files are worth 60
// points, project docs 30, and a small quality bonus tops it up.
func (r DocsReport) Score() int {
	score := 0

	if r.HasReadme {
		score += 20
		if r.ReadmeLines >= 50 {
			score += 10
		}
	}
	if r.HasLicense {
		score += 10
	}
	if r.HasChangelog {
		score += 10
	}
	if r.HasContributing {
		score += 10
	}

	if r.DocsFolderExists {
		score += 10
	}
	if r.HasPRD {
		score += 10
	}
	if r.HasArchitecture {
		score += 10
	}

	if r.DocFileCount >= 5 {
		score += 5
	}
	if len(r.OutdatedDocs) == 0 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Missing lists the standard documents the project does not have.
func (r DocsReport) Missing() []string {
	var missing []string
	if !r.HasReadme {
		missing = append(missing, "README.md")
	}
	if !r.HasLicense {
		missing = append(missing, "LICENSE")
	}
	if !r.HasChangelog {
		missing = append(missing, "CHANGELOG.md")
	}
	if !r.HasContributing {
		missing = append(missing, "CONTRIBUTING.md")
	}
	if !r.HasPRD {
		missing = append(missing, "docs/PRD.md")
	}
	if !r.HasArchitecture {
		missing = append(missing, "docs/ARCHITECTURE.md")
	}
	return missing
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
