// Package native drives the host package managers offdroid supports.
package native

import (
	"context"
	"os/exec"
	"strings"

	"github.com/retoro-sen/offdroid-update-manager/internal/executor"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// Runner executes external commands. *executor.Executor satisfies it.
type Runner interface {
	// Capture runs a command attached to the terminal and captures its output.
	Capture(ctx context.Context, sudo bool, name string, args ...string) (executor.Output, error)

	// Output runs a read-only query and returns its stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// BaseManager provides common functionality for all native package managers.
type BaseManager struct {
	kind     manager.Kind
	runner   Runner
	lookPath manager.LookPathFunc
	notify   func(command string)
}

// NewBaseManager creates a BaseManager for kind running commands through runner.
func NewBaseManager(kind manager.Kind, runner Runner) *BaseManager {
	return &BaseManager{
		kind:     kind,
		runner:   runner,
		lookPath: exec.LookPath,
	}
}

// Kind returns the kind of package manager.
func (b *BaseManager) Kind() manager.Kind {
	return b.kind
}

// DisplayName returns the human-readable name.
func (b *BaseManager) DisplayName() string {
	return b.kind.DisplayName()
}

// Binary returns the executable this manager invokes.
func (b *BaseManager) Binary() string {
	return b.kind.Binary()
}

// NeedsSudo returns true if this manager requires root privileges.
func (b *BaseManager) NeedsSudo() bool {
	return b.kind.NeedsSudo()
}

// IsAvailable returns true if this package manager is installed.
func (b *BaseManager) IsAvailable() bool {
	_, err := b.lookPath(b.Binary())
	return err == nil
}

// SetLookPath overrides the executable probe used by IsAvailable.
func (b *BaseManager) SetLookPath(fn manager.LookPathFunc) {
	if fn != nil {
		b.lookPath = fn
	}
}

// SetNotify registers a callback invoked with each command line just before it runs.
func (b *BaseManager) SetNotify(fn func(command string)) {
	b.notify = fn
}

// Version returns the first line of the manager's --version output.
func (b *BaseManager) Version(ctx context.Context) (string, error) {
	out, err := b.runner.Output(ctx, b.Binary(), "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(line), nil
}

// run executes one step of the update sequence, elevated when the manager needs it.
// A non-zero exit becomes a *CommandError.
func (b *BaseManager) run(ctx context.Context, args ...string) (executor.Output, error) {
	line := executor.CommandLine(b.NeedsSudo(), b.Binary(), args)
	if b.notify != nil {
		b.notify(line)
	}

	out, err := b.runner.Capture(ctx, b.NeedsSudo(), b.Binary(), args...)
	if err != nil {
		return out, newCommandError(b.kind, line, out.Stderr, err)
	}
	return out, nil
}
