package executor

import (
	"errors"
	"testing"
)

func TestCanElevate(t *testing.T) {
	result := CanElevate()

	if IsRoot() && !result {
		t.Error("CanElevate() should return true when running as root")
	}
	if HasSudo() && !result {
		t.Error("CanElevate() should return true when sudo is available")
	}
}

func TestCheckPrivileges(t *testing.T) {
	if err := CheckPrivileges(false); err != nil {
		t.Errorf("CheckPrivileges(false) should return nil: %v", err)
	}

	err := CheckPrivileges(true)
	if CanElevate() && err != nil {
		t.Errorf("CheckPrivileges(true) with elevation available should return nil: %v", err)
	}
	if !CanElevate() && !errors.Is(err, ErrNoPrivileges) {
		t.Errorf("CheckPrivileges(true) = %v, want ErrNoPrivileges", err)
	}
}
