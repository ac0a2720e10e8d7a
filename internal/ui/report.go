package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
)

// RenderReport draws the list of updated packages in a bordered panel.
func RenderReport(title string, packages []string) string {
	border := lipgloss.RoundedBorder()
	if !UseUnicode {
		border = lipgloss.ASCIIBorder()
	}

	box := lipgloss.NewStyle().
		Border(border).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle()
	if UseColors {
		box = box.BorderForeground(colorPrimary)
		titleStyle = titleStyle.Foreground(colorPrimary)
		mutedStyle = mutedStyle.Foreground(colorMuted)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Updated packages: %d", len(packages))))
	for _, pkg := range packages {
		b.WriteString("\n")
		b.WriteString(SymbolBullet + " " + pkg)
	}

	return box.Render(b.String())
}

// PrintReport prints the report panel, or a notice when nothing changed.
func PrintReport(title string, packages []string) {
	if len(packages) == 0 {
		InfoMsg("No packages were updated (system might be already up-to-date)")
		return
	}
	Println("%s", RenderReport(title, packages))
}
