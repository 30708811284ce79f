package nextstep

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/x100-tools/x100/internal/fsutil"
)

// Report format names, as accepted by the --format flag.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// SaveReport writes a report under dir with a timestamped filename and
// returns the full path.
func SaveReport(dir, content, format string, now time.Time) (string, error) {
	ext := "json"
	if format == FormatMarkdown {
		ext = "md"
	}
	name := fmt.Sprintf("nextstep_report_%s.%s", now.Format("20060102_150405"), ext)
	path := filepath.Join(dir, name)
	if err := SaveReportTo(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// SaveReportTo writes a report to an explicit path, creating parent
// directories. The write is atomic so a crash cannot leave a torn report.
func SaveReportTo(path, content string) error {
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, []byte(content), 0o644)
}
