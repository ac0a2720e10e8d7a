// Package changelog renders the update report and writes it to a
// timestamped text file.
package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultTitle heads every report.
	DefaultTitle = "Offdroid Update Report"

	// DefaultPrefix is the default changelog file name prefix.
	DefaultPrefix = "offdroid_changelog"

	separatorWidth = 50
	fileTimeLayout = "20060102_150405"
	dateLayout     = "2006-01-02 15:04:05"
)

// Report is the content of one changelog.
type Report struct {
	Title    string
	Date     time.Time
	Packages []string
}

// NewReport creates a report dated now.
func NewReport(packages []string) *Report {
	return &Report{
		Title:    DefaultTitle,
		Date:     time.Now(),
		Packages: packages,
	}
}

// Format renders the report in the changelog layout: title, date and count
// lines, then the bulleted packages between two separator lines.
func (r *Report) Format() string {
	sep := strings.Repeat("=", separatorWidth)

	var b strings.Builder
	fmt.Fprintln(&b, r.Title)
	fmt.Fprintf(&b, "Date: %s\n", r.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Updated packages: %d\n", len(r.Packages))
	fmt.Fprintln(&b, sep)
	for _, pkg := range r.Packages {
		fmt.Fprintf(&b, "  • %s\n", pkg)
	}
	fmt.Fprintln(&b, sep)
	return b.String()
}

// FileName returns "<prefix>_YYYYMMDD_HHMMSS.txt" for t.
func FileName(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s.txt", prefix, t.Format(fileTimeLayout))
}

// Write stores the report in dir under a name derived from its date and
// returns the file's path. Existing files are never overwritten.
func Write(dir, prefix string, r *Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create changelog directory: %w", err)
	}

	path := filepath.Join(dir, FileName(prefix, r.Date))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create changelog: %w", err)
	}

	if _, err := f.WriteString(r.Format()); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write changelog: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write changelog: %w", err)
	}
	return path, nil
}
