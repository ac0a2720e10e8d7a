package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/retoro-sen/offdroid-update-manager/internal/logging"
)

func newTestExecutor(opts ...Option) (*Executor, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	opts = append([]Option{
		WithStreams(strings.NewReader(""), &stdout, &stderr),
		WithLogger(logging.Discard()),
	}, opts...)
	return New(opts...), &stdout, &stderr
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestNew(t *testing.T) {
	e := New()
	if e == nil {
		t.Fatal("New() returned nil")
	}
	if e.DryRun() {
		t.Error("New() should not default to dry-run")
	}
}

func TestOutput(t *testing.T) {
	skipOnWindows(t)
	e, _, _ := newTestExecutor()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := e.Output(ctx, "echo", "hello")
	if err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("Output() = %s, want to contain 'hello'", output)
	}
}

func TestCaptureSucceeds(t *testing.T) {
	skipOnWindows(t)
	e, _, _ := newTestExecutor()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := e.Capture(ctx, false, "true"); err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
}

func TestCaptureFailing(t *testing.T) {
	skipOnWindows(t)
	e, _, _ := newTestExecutor()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := e.Capture(ctx, false, "false")
	if err == nil {
		t.Fatal("Capture() should return error for failing command")
	}
	if code := ExitCode(err); code != 1 {
		t.Errorf("ExitCode() = %d, want 1", code)
	}
}

func TestCapture(t *testing.T) {
	skipOnWindows(t)
	e, stdout, stderr := newTestExecutor()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := e.Capture(ctx, false, "sh", "-c", "echo upgraded; echo warning >&2; exit 3")
	if err == nil {
		t.Fatal("Capture() should return error for exit 3")
	}
	if code := ExitCode(err); code != 3 {
		t.Errorf("ExitCode() = %d, want 3", code)
	}
	if out.Stdout != "upgraded\n" {
		t.Errorf("Stdout = %q, want %q", out.Stdout, "upgraded\n")
	}
	if out.Stderr != "warning\n" {
		t.Errorf("Stderr = %q, want %q", out.Stderr, "warning\n")
	}
	// Output is streamed as well as captured.
	if !strings.Contains(stdout.String(), "upgraded") {
		t.Errorf("stdout stream = %q, want streamed output", stdout.String())
	}
	if !strings.Contains(stderr.String(), "warning") {
		t.Errorf("stderr stream = %q, want streamed output", stderr.String())
	}
}

func TestDryRun(t *testing.T) {
	e, stdout, _ := newTestExecutor(WithDryRun(true))
	ctx := context.Background()

	out, err := e.Capture(ctx, false, "brew", "upgrade")
	if err != nil {
		t.Fatalf("Capture() in dry-run mode error: %v", err)
	}
	if out.Stdout != "" || out.Stderr != "" {
		t.Errorf("Capture() in dry-run mode should capture nothing, got %+v", out)
	}
	if !strings.Contains(stdout.String(), "[dry-run] Would execute: brew upgrade") {
		t.Errorf("dry-run output = %q", stdout.String())
	}
}

func TestVerboseAnnouncesCommand(t *testing.T) {
	skipOnWindows(t)
	e, stdout, _ := newTestExecutor(WithVerbose(true))

	if _, err := e.Capture(context.Background(), false, "true"); err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Executing: true") {
		t.Errorf("verbose output = %q", stdout.String())
	}
}

func TestCaptureWithCancelledContext(t *testing.T) {
	skipOnWindows(t)
	e, _, _ := newTestExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Capture(ctx, false, "sleep", "10"); err == nil {
		t.Error("Capture() should fail with cancelled context")
	}
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		sudo     bool
		name     string
		args     []string
		expected string
	}{
		{false, "brew", []string{"upgrade"}, "brew upgrade"},
		{true, "apt-get", []string{"upgrade", "-y"}, "sudo apt-get upgrade -y"},
		{true, "pacman", nil, "sudo pacman"},
	}

	for _, tt := range tests {
		if got := CommandLine(tt.sudo, tt.name, tt.args); got != tt.expected {
			t.Errorf("CommandLine(%v, %s, %v) = %q, want %q", tt.sudo, tt.name, tt.args, got, tt.expected)
		}
	}
}

type codeErr int

func (c codeErr) Error() string { return fmt.Sprintf("exit %d", int(c)) }
func (c codeErr) ExitCode() int { return int(c) }

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), -1},
		{"exit coder", codeErr(100), 100},
		{"wrapped exit coder", fmt.Errorf("refresh: %w", codeErr(2)), 2},
		{"not found", exec.ErrNotFound, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}
