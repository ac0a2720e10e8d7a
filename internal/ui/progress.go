package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar renders download progress on a single, redrawn line.
type ProgressBar struct {
	w       io.Writer
	label   string
	bar     progress.Model
	lastPct int
	drawn   bool
}

// NewProgressBar creates a progress bar writing to w.
func NewProgressBar(w io.Writer, label string) *ProgressBar {
	opts := []progress.Option{progress.WithWidth(40)}
	if UseColors {
		opts = append(opts, progress.WithDefaultGradient())
	} else {
		opts = append(opts, progress.WithSolidFill(""))
	}
	if !UseUnicode {
		opts = append(opts, progress.WithFillCharacters('#', '-'))
	}

	return &ProgressBar{
		w:       w,
		label:   label,
		bar:     progress.New(opts...),
		lastPct: -1,
	}
}

// Update redraws the bar for done of total bytes. With an unknown total
// only the byte count is shown. Redraws happen at most once per percent.
func (p *ProgressBar) Update(done, total int64) {
	if total <= 0 {
		fmt.Fprintf(p.w, "\r%s %s", p.label, FormatBytes(done))
		p.drawn = true
		return
	}

	pct := Percent(done, total)
	if pct == p.lastPct {
		return
	}
	p.lastPct = pct
	fmt.Fprintf(p.w, "\r%s %s", p.label, p.bar.ViewAs(float64(pct)/100))
	p.drawn = true
}

// Done ends the progress line.
func (p *ProgressBar) Done() {
	if p.drawn {
		fmt.Fprintln(p.w)
	}
}

// Percent returns done as a whole percentage of total, clamped to 0..100.
func Percent(done, total int64) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return int(done * 100 / total)
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), strings.ToUpper("kmgtpe")[exp])
}
