package manager

import (
	"errors"
	"os/exec"
)

// ErrNoSupportedManager is returned when none of the supported executables is on the search path.
var ErrNoSupportedManager = errors.New("no supported package manager found (apt, zypper, dnf, pacman, or brew)")

// LookPathFunc resolves an executable name on the search path.
// It has the signature of exec.LookPath so tests can simulate installed binaries.
type LookPathFunc func(file string) (string, error)

// Detect probes for each supported executable in priority order and returns the
// first kind whose binary is present. A nil lookPath defaults to exec.LookPath.
func Detect(lookPath LookPathFunc) (Kind, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for _, k := range Kinds {
		if _, err := lookPath(k.Binary()); err == nil {
			return k, nil
		}
	}

	return "", ErrNoSupportedManager
}

// DetectAll returns every kind whose binary is present, in priority order.
func DetectAll(lookPath LookPathFunc) []Kind {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var found []Kind
	for _, k := range Kinds {
		if _, err := lookPath(k.Binary()); err == nil {
			found = append(found, k)
		}
	}
	return found
}
