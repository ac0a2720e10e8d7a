//go:build windows

package executor

import (
	"testing"
)

func TestIsRoot(t *testing.T) {
	// The result depends on how the test binary was launched.
	t.Logf("IsRoot() returned: %v", IsRoot())
}
