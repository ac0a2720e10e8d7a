package native

import (
	"errors"
	"strings"
	"testing"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name    string
		kind    manager.Kind
		stderr  string
		wantSub string
	}{
		{
			name:    "apt lock",
			kind:    manager.KindAPT,
			stderr:  "E: Could not get lock /var/lib/dpkg/lock-frontend. It is held by process 1234 (unattended-upgr)",
			wantSub: "Another package manager",
		},
		{
			name:    "apt interrupted",
			kind:    manager.KindAPT,
			stderr:  "E: dpkg was interrupted, you must manually run 'sudo dpkg --configure -a' to correct the problem.",
			wantSub: "dpkg --configure -a",
		},
		{
			name:    "pacman locked database",
			kind:    manager.KindPacman,
			stderr:  "error: failed to init transaction (unable to lock database)\nerror: could not lock database: File exists",
			wantSub: "db.lck",
		},
		{
			name: "pacman dependency conflict",
			kind: manager.KindPacman,
			stderr: "error: failed to prepare transaction (could not satisfy dependencies)\n" +
				":: installing gst-plugins-base-libs (1.26.10-3) breaks dependency 'gst-plugins-base-libs=1.26.10-1' required by gst-plugins-bad-libs",
			wantSub: "dependency conflict",
		},
		{
			name:    "pacman packages in conflict",
			kind:    manager.KindPacman,
			stderr:  ":: iptables and iptables-nft are in conflict. Remove iptables? [y/N]",
			wantSub: "dependency conflict",
		},
		{
			name:    "dnf metadata",
			kind:    manager.KindDNF,
			stderr:  "Error: Failed to download metadata for repo 'updates': Cannot download repomd.xml",
			wantSub: "network",
		},
		{
			name:    "zypper locked",
			kind:    manager.KindZypper,
			stderr:  "System management is locked by the application with pid 811 (zypper).",
			wantSub: "Another package manager",
		},
		{
			name:    "brew already running",
			kind:    manager.KindBrew,
			stderr:  "Error: Another active Homebrew update process is already in progress.",
			wantSub: "Another package manager",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.kind, tt.stderr)
			if !strings.Contains(got, tt.wantSub) {
				t.Errorf("Suggest() = %q, want it to contain %q", got, tt.wantSub)
			}
		})
	}
}

func TestSuggestUnknown(t *testing.T) {
	tests := []struct {
		name   string
		kind   manager.Kind
		stderr string
	}{
		{"empty", manager.KindAPT, ""},
		{"whitespace", manager.KindPacman, "  \n"},
		{"unrecognized", manager.KindDNF, "Error: something odd happened"},
		{"other manager's message", manager.KindBrew, "error: failed to init transaction (unable to lock database)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggest(tt.kind, tt.stderr); got != "" {
				t.Errorf("Suggest() = %q, want empty", got)
			}
		})
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Command: "sudo apt-get upgrade -y", ExitCode: 100, Err: exitErr(100)}
	if got := err.Error(); got != "sudo apt-get upgrade -y failed with exit code 100" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("executable file not found in $PATH")
	err = &CommandError{Command: "brew update", ExitCode: -1, Err: cause}
	if got := err.Error(); got != "brew update failed: executable file not found in $PATH" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("CommandError should unwrap to its cause")
	}
}
