package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	w       io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table printing to the message output.
func NewTable(headers ...string) *Table {
	return NewTableWriter(Output(), headers...)
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, headers ...string) *Table {
	return &Table{w: w, headers: headers}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the headers and rows, aligned into columns.
func (t *Table) Render() error {
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
	if len(t.headers) > 0 {
		header := make([]string, len(t.headers))
		for i, h := range t.headers {
			header[i] = Bold(strings.ToUpper(h))
		}
		fmt.Fprintln(tw, strings.Join(header, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// PrintField prints a single labelled value.
func PrintField(label, value string) {
	fmt.Fprintf(Output(), "  %s: %s\n", Cyan(label), value)
}

// PrintSystemInfo prints system information.
func PrintSystemInfo(prettyName, arch, distro, selected string, available []string) {
	HeaderMsg("System Information")

	PrintField("Operating System", prettyName)
	PrintField("Architecture", arch)

	if distro != "" {
		PrintField("Distribution", distro)
	}

	if selected != "" {
		PrintField("Package Manager", selected)
	} else {
		PrintField("Package Manager", Muted.Sprint("none found"))
	}

	if len(available) > 0 {
		PrintField("Available Managers", strings.Join(available, ", "))
	}
}
