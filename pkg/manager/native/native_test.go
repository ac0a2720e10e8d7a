package native

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/retoro-sen/offdroid-update-manager/internal/executor"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

type call struct {
	sudo bool
	name string
	args []string
}

func (c call) String() string {
	return executor.CommandLine(c.sudo, c.name, c.args)
}

type exitErr int

func (e exitErr) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitErr) ExitCode() int { return int(e) }

// fakeRunner records commands and answers them from canned responses keyed
// by the rendered command line.
type fakeRunner struct {
	calls   []call
	outputs map[string]executor.Output
	errs    map[string]error
	queries map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: make(map[string]executor.Output),
		errs:    make(map[string]error),
		queries: make(map[string]string),
	}
}

func (f *fakeRunner) Capture(_ context.Context, sudo bool, name string, args ...string) (executor.Output, error) {
	c := call{sudo: sudo, name: name, args: args}
	f.calls = append(f.calls, c)
	return f.outputs[c.String()], f.errs[c.String()]
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	line := executor.CommandLine(false, name, args)
	out, ok := f.queries[line]
	if !ok {
		return "", exitErr(127)
	}
	return out, nil
}

func (f *fakeRunner) commandLines() []string {
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = c.String()
	}
	return lines
}

func TestDriveCommandSequence(t *testing.T) {
	tests := []struct {
		kind     manager.Kind
		expected []string
	}{
		{manager.KindAPT, []string{"sudo apt-get update", "sudo apt-get upgrade -y"}},
		{manager.KindZypper, []string{"sudo zypper refresh", "sudo zypper update -y"}},
		{manager.KindDNF, []string{"sudo dnf check-update", "sudo dnf upgrade -y"}},
		{manager.KindPacman, []string{"sudo pacman -Sy", "sudo pacman -Su --noconfirm"}},
		{manager.KindBrew, []string{"brew update", "brew upgrade"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			runner := newFakeRunner()
			mgr, err := New(tt.kind, runner)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}

			var announced []string
			mgr.SetNotify(func(command string) { announced = append(announced, command) })

			if _, err := Drive(context.Background(), mgr); err != nil {
				t.Fatalf("Drive() error: %v", err)
			}
			if got := runner.commandLines(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("commands = %q, want %q", got, tt.expected)
			}
			if !reflect.DeepEqual(announced, tt.expected) {
				t.Errorf("announced = %q, want %q", announced, tt.expected)
			}
		})
	}
}

func TestDriveParsesUpgradeOutput(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["sudo apt-get upgrade -y"] = executor.Output{
		Stdout: "Unpacking vim (2:9.0) ...\nSetting up vim (2:9.0) ...\nSetting up curl (8.5) ...\n",
	}

	result, err := Drive(context.Background(), NewAPT(runner))
	if err != nil {
		t.Fatalf("Drive() error: %v", err)
	}
	if result.Kind != manager.KindAPT {
		t.Errorf("Kind = %s, want apt", result.Kind)
	}
	want := manager.UpdateResult{"vim", "curl"}
	if !reflect.DeepEqual(result.Packages, want) {
		t.Errorf("Packages = %v, want %v", result.Packages, want)
	}
}

func TestDriveRefreshFailureStopsRun(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["sudo pacman -Sy"] = executor.Output{Stderr: "error: failed to init transaction (unable to lock database)\n"}
	runner.errs["sudo pacman -Sy"] = exitErr(1)

	_, err := Drive(context.Background(), NewPacman(runner))
	if err == nil {
		t.Fatal("Drive() should fail when refresh fails")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %T, want *CommandError", err)
	}
	if cmdErr.Command != "sudo pacman -Sy" {
		t.Errorf("Command = %q", cmdErr.Command)
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "error: failed to init transaction (unable to lock database)\n" {
		t.Errorf("Stderr not preserved verbatim: %q", cmdErr.Stderr)
	}
	if cmdErr.Suggestion == "" {
		t.Error("expected a suggestion for a locked database")
	}
	if len(runner.calls) != 1 {
		t.Errorf("upgrade should not run after a failed refresh, calls = %q", runner.commandLines())
	}
}

func TestDriveUpgradeFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["brew upgrade"] = exitErr(1)

	_, err := Drive(context.Background(), NewBrew(runner))
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Drive() error = %v, want *CommandError", err)
	}
	if cmdErr.Command != "brew upgrade" {
		t.Errorf("Command = %q, want %q", cmdErr.Command, "brew upgrade")
	}
	if !errors.Is(err, exitErr(1)) {
		t.Error("CommandError should unwrap to the process error")
	}
}

func TestDNFRefreshToleratesExitStatus(t *testing.T) {
	for _, code := range []int{1, 100} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			runner := newFakeRunner()
			runner.errs["sudo dnf check-update"] = exitErr(code)
			runner.outputs["sudo dnf upgrade -y"] = executor.Output{Stdout: "Upgrading        : bash-5.2-1.fc39.x86_64  1/2\n"}

			result, err := Drive(context.Background(), NewDNF(runner))
			if err != nil {
				t.Fatalf("Drive() error: %v", err)
			}
			if !reflect.DeepEqual(result.Packages, manager.UpdateResult{"bash-5.2-1.fc39.x86_64"}) {
				t.Errorf("Packages = %v", result.Packages)
			}
		})
	}
}

func TestDNFRefreshReportsStartFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["sudo dnf check-update"] = executor.ErrNoPrivileges

	if err := NewDNF(runner).Refresh(context.Background()); !errors.Is(err, executor.ErrNoPrivileges) {
		t.Errorf("Refresh() error = %v, want ErrNoPrivileges", err)
	}
}

func TestNewUnsupported(t *testing.T) {
	if _, err := New(manager.Kind("yum"), newFakeRunner()); err == nil {
		t.Error("New(yum) should fail")
	}
}

func TestNewAllPriorityOrder(t *testing.T) {
	drivers := NewAll(newFakeRunner())
	if len(drivers) != len(manager.Kinds) {
		t.Fatalf("NewAll() returned %d drivers, want %d", len(drivers), len(manager.Kinds))
	}
	for i, d := range drivers {
		if d.Kind() != manager.Kinds[i] {
			t.Errorf("NewAll()[%d] = %s, want %s", i, d.Kind(), manager.Kinds[i])
		}
	}
}

func TestRegisterAll(t *testing.T) {
	r := manager.NewRegistry()
	RegisterAll(r, newFakeRunner())
	for _, k := range manager.Kinds {
		if _, ok := r.Get(k); !ok {
			t.Errorf("RegisterAll() did not register %s", k)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	mgr := NewZypper(newFakeRunner())
	mgr.SetLookPath(func(file string) (string, error) {
		if file == "zypper" {
			return "/usr/bin/zypper", nil
		}
		return "", errors.New("not found")
	})
	if !mgr.IsAvailable() {
		t.Error("IsAvailable() = false, want true")
	}

	brew := NewBrew(newFakeRunner())
	brew.SetLookPath(func(string) (string, error) { return "", errors.New("not found") })
	if brew.IsAvailable() {
		t.Error("IsAvailable() = true, want false")
	}
}

func TestVersion(t *testing.T) {
	runner := newFakeRunner()
	runner.queries["pacman --version"] = "\n .--.                  Pacman v6.1.0 - libalpm v14.0.0\n/ _.-' .-.  .-.  .-.   Copyright\n"

	got, err := NewPacman(runner).Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if got != ".--.                  Pacman v6.1.0 - libalpm v14.0.0" {
		t.Errorf("Version() = %q", got)
	}

	if _, err := NewAPT(runner).Version(context.Background()); err == nil {
		t.Error("Version() should fail when the query fails")
	}
}
