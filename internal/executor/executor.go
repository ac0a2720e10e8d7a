// Package executor handles command execution with privilege escalation support.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/retoro-sen/offdroid-update-manager/internal/logging"
)

// Executor runs external commands, optionally elevated with sudo.
type Executor struct {
	dryRun  bool
	verbose bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  *log.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithDryRun makes the executor print commands instead of running them.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// WithVerbose announces every command before it runs.
func WithVerbose(verbose bool) Option {
	return func(e *Executor) {
		e.verbose = verbose
	}
}

// WithStreams overrides the terminal streams commands are attached to.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates a new Executor with the given options.
func New(opts ...Option) *Executor {
	e := &Executor{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logging.Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DryRun reports whether commands are only printed.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Capture runs a command, streaming stdout and stderr to the terminal while
// also capturing both. The sudo flag requests elevation.
func (e *Executor) Capture(ctx context.Context, sudo bool, name string, args ...string) (Output, error) {
	return e.run(ctx, sudo, name, args)
}

// Output runs a command quietly and returns its stdout. It is never elevated
// and runs even in dry-run mode, so it must only be used for read-only queries.
func (e *Executor) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	e.logger.Debug("query", "command", CommandLine(false, name, args))

	err := cmd.Run()
	return stdout.String(), err
}

// Output holds the captured streams of a command.
type Output struct {
	Stdout string
	Stderr string
}

func (e *Executor) run(ctx context.Context, sudo bool, name string, args []string) (Output, error) {
	if e.dryRun {
		e.printDryRun(sudo, name, args)
		return Output{}, nil
	}

	var cmd *exec.Cmd
	switch {
	case !sudo || isRoot():
		cmd = exec.CommandContext(ctx, name, args...)
	case hasSudo():
		sudoArgs := append([]string{name}, args...)
		cmd = exec.CommandContext(ctx, "sudo", sudoArgs...)
	default:
		return Output{}, ErrNoPrivileges
	}

	cmd.Stdin = e.stdin
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(e.stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(e.stderr, &stderrBuf)

	line := CommandLine(sudo && !isRoot(), name, args)
	if e.verbose {
		fmt.Fprintf(e.stdout, "Executing: %s\n", line)
	}
	e.logger.Debug("exec", "command", line)

	err := cmd.Run()
	out := Output{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}
	if err != nil {
		e.logger.Debug("command failed", "command", line, "exit", ExitCode(err), "error", err)
	}
	return out, err
}

func (e *Executor) printDryRun(sudo bool, name string, args []string) {
	fmt.Fprintf(e.stdout, "[dry-run] Would execute: %s\n", CommandLine(sudo && !isRoot(), name, args))
}

// CommandLine renders a command the way the user would type it.
func CommandLine(sudo bool, name string, args []string) string {
	parts := make([]string, 0, len(args)+2)
	if sudo {
		parts = append(parts, "sudo")
	}
	parts = append(parts, name)
	parts = append(parts, args...)
	return strings.Join(parts, " ")
}

// ExitCode extracts the process exit status from an error returned by Capture. It returns 0 for nil and -1 when no status is available.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}
