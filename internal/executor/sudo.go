package executor

import (
	"errors"
	"os/exec"
)

// ErrNoPrivileges is returned when a command needs root but the process can
// neither run as root nor elevate with sudo.
var ErrNoPrivileges = errors.New("this operation requires root privileges, but neither running as root nor sudo is available")

// lookPath finds the sudo implementation.
var lookPath = exec.LookPath

// IsRoot returns true if the current process is running as root/administrator.
func IsRoot() bool {
	return isRoot()
}

// HasSudo returns true if sudo is available on the system.
func HasSudo() bool {
	return hasSudo()
}

// CanElevate returns true if the process can elevate privileges.
func CanElevate() bool {
	return isRoot() || hasSudo()
}

// CheckPrivileges returns ErrNoPrivileges if elevation is needed but impossible.
func CheckPrivileges(needsSudo bool) error {
	if needsSudo && !CanElevate() {
		return ErrNoPrivileges
	}
	return nil
}
