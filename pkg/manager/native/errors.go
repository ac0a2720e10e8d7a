package native

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/retoro-sen/offdroid-update-manager/internal/executor"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// CommandError is returned when a package manager command exits non-zero.
// Stderr holds the command's captured error output, unmodified.
type CommandError struct {
	Kind       manager.Kind
	Command    string
	ExitCode   int
	Stderr     string
	Suggestion string
	Err        error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s failed with exit code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

func newCommandError(kind manager.Kind, command, stderr string, err error) *CommandError {
	return &CommandError{
		Kind:       kind,
		Command:    command,
		ExitCode:   executor.ExitCode(err),
		Stderr:     stderr,
		Suggestion: Suggest(kind, stderr),
		Err:        err,
	}
}

type hint struct {
	pattern    *regexp.Regexp
	suggestion string
}

var lockHint = "Another package manager may be running. Wait for it to finish and try again."

// Patterns for common, recoverable failures of each manager.
var hints = map[manager.Kind][]hint{
	manager.KindAPT: {
		{regexp.MustCompile(`Could not get lock|Unable to acquire the dpkg frontend lock`), lockHint},
		{regexp.MustCompile(`dpkg was interrupted`), "Run 'sudo dpkg --configure -a' to finish the interrupted installation."},
		{regexp.MustCompile(`(?m)^(E|Err): .*(Temporary failure resolving|Could not resolve)`), "Check your network connection."},
	},
	manager.KindZypper: {
		{regexp.MustCompile(`System management is locked`), lockHint},
		{regexp.MustCompile(`Repository .* is invalid|Valid metadata not found`), "Run 'sudo zypper refresh' and check the failing repository."},
	},
	manager.KindDNF: {
		{regexp.MustCompile(`Waiting for process with pid|another copy is running`), lockHint},
		{regexp.MustCompile(`Failed to download metadata for repo`), "Check your network connection or disable the failing repository."},
	},
	manager.KindPacman: {
		{regexp.MustCompile(`failed to init transaction.*unable to lock database`), "Another package manager may be running. Wait for it to finish or remove /var/lib/pacman/db.lck"},
		{regexp.MustCompile(`failed to prepare transaction.*could not satisfy dependencies|:: \S+ and \S+ are in conflict`), "Resolve the dependency conflict manually with 'sudo pacman -Syu'."},
		{regexp.MustCompile(`invalid or corrupted package|signature from .* is (unknown trust|invalid)`), "Refresh the keyring with 'sudo pacman -Sy archlinux-keyring'."},
	},
	manager.KindBrew: {
		{regexp.MustCompile(`Another active Homebrew .* process is already in progress`), lockHint},
		{regexp.MustCompile(`The following directories are not writable by your user`), "Fix the ownership of the Homebrew prefix as brew suggests."},
	},
}

// Suggest returns a remedy for a known failure in stderr, or "" when the
// failure is not recognized.
func Suggest(kind manager.Kind, stderr string) string {
	if strings.TrimSpace(stderr) == "" {
		return ""
	}
	for _, h := range hints[kind] {
		if h.pattern.MatchString(stderr) {
			return h.suggestion
		}
	}
	return ""
}
