package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestIsYes(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{" YES \n", true},
		{"", false},
		{"n", false},
		{"no", false},
		{"yep", false},
		{"sure", false},
	}

	for _, tt := range tests {
		if got := IsYes(tt.input); got != tt.expected {
			t.Errorf("IsYes(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestFixedConfirmer(t *testing.T) {
	for _, answer := range []bool{true, false} {
		got, err := FixedConfirmer(answer).Confirm("Proceed?")
		if err != nil {
			t.Fatalf("Confirm() error: %v", err)
		}
		if got != answer {
			t.Errorf("FixedConfirmer(%v).Confirm() = %v", answer, got)
		}
	}
}

func TestRecordingConfirmer(t *testing.T) {
	c := &RecordingConfirmer{Answers: []bool{true}}

	first, _ := c.Confirm("Update offdroid?")
	second, _ := c.Confirm("Update packages?")

	if !first || second {
		t.Errorf("answers = %v, %v, want true, false", first, second)
	}
	if len(c.Prompts) != 2 || c.Prompts[1] != "Update packages?" {
		t.Errorf("Prompts = %q", c.Prompts)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int64
		expected    int
	}{
		{0, 100, 0},
		{50, 100, 50},
		{8192, 16384, 50},
		{99, 100, 99},
		{100, 100, 100},
		{150, 100, 100},
		{10, 0, 0},
		{10, -1, 0},
	}

	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.expected {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.expected)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.expected)
		}
	}
}

func TestProgressBar(t *testing.T) {
	Init(false, false)
	t.Cleanup(func() { Init(true, true) })

	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "Downloading")
	bar.Update(10, 100)
	bar.Update(10, 100)
	bar.Update(100, 100)
	bar.Done()

	out := buf.String()
	if strings.Count(out, "\rDownloading") != 2 {
		t.Errorf("expected two redraws, got %q", out)
	}
	if !strings.Contains(out, "100%") {
		t.Errorf("expected final percentage in %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Done() should end the line")
	}
}

func TestProgressBarUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "Downloading")
	bar.Update(2048, -1)

	if !strings.Contains(buf.String(), "2.0 KiB") {
		t.Errorf("unknown total should show byte count, got %q", buf.String())
	}
}

func TestRenderReport(t *testing.T) {
	Init(false, false)
	t.Cleanup(func() { Init(true, true) })

	out := RenderReport("Offdroid Update Report", []string{"vim", "curl"})
	for _, want := range []string{"Offdroid Update Report", "Updated packages: 2", "* vim", "* curl"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderReport() missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	PrintReport("Offdroid Update Report", nil)
	if !strings.Contains(buf.String(), "No packages were updated") {
		t.Errorf("PrintReport(nil) = %q", buf.String())
	}
}

func TestTableRender(t *testing.T) {
	Init(false, true)
	t.Cleanup(func() { Init(true, true) })

	var buf bytes.Buffer
	table := NewTableWriter(&buf, "id", "manager")
	table.AddRow("1", "apt")
	table.AddRow("2", "pacman")
	if err := table.Render(); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Render() produced %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "pacman") {
		t.Errorf("last line = %q", lines[2])
	}
}
