//go:build !windows

package executor

import "os"

var geteuid = os.Geteuid

// isRoot returns true if the effective user is root.
func isRoot() bool {
	return geteuid() == 0
}

// hasSudo returns true if sudo is on the search path.
func hasSudo() bool {
	_, err := lookPath("sudo")
	return err == nil
}
