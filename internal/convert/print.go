package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PrintResults writes a summary line and a per-file listing.
func PrintResults(w io.Writer, results []Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results to display")
		return
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}

	fmt.Fprintf(w, "\nConverted %d/%d user stories (%d failed)\n\n",
		succeeded, len(results), len(results)-succeeded)

	width := 0
	for _, r := range results {
		if n := len(filepath.Base(r.File)); n > width {
			width = n
		}
	}

	for _, r := range results {
		name := filepath.Base(r.File)
		if r.Success {
			fmt.Fprintf(w, "  %-*s  ok      %s\n", width, name, r.IssueURL)
		} else {
			fmt.Fprintf(w, "  %-*s  FAILED  %s\n", width, name, r.Error)
		}
	}
}

// RemoveSources deletes the source files of successfully converted stories
// and returns how many were removed.
func RemoveSources(w io.Writer, results []Result) int {
	deleted := 0
	for _, r := range results {
		if !r.Success {
			continue
		}
		if err := os.Remove(r.File); err != nil {
			fmt.Fprintf(w, "Failed to delete %s: %v\n", filepath.Base(r.File), err)
			continue
		}
		fmt.Fprintf(w, "Deleted: %s\n", filepath.Base(r.File))
		deleted++
	}
	return deleted
}
