package manager

import "context"

// Manager drives a single host package manager.
type Manager interface {
	// Kind returns the kind of package manager.
	Kind() Kind

	// DisplayName returns a human-readable name (e.g., "Pacman (Arch Linux)").
	DisplayName() string

	// IsAvailable returns true if the manager's executable is on the search path.
	IsAvailable() bool

	// NeedsSudo returns true if refresh and upgrade require root privileges.
	NeedsSudo() bool

	// Refresh updates the package metadata without upgrading anything.
	Refresh(ctx context.Context) error

	// Upgrade upgrades every installed package non-interactively and returns
	// the captured standard output.
	Upgrade(ctx context.Context) (string, error)
}

// UpdateResult is the ordered list of package names reported as changed by an upgrade.
type UpdateResult []string

// Len returns the number of packages in the result.
func (r UpdateResult) Len() int {
	return len(r)
}

// Empty reports whether no package was detected.
func (r UpdateResult) Empty() bool {
	return len(r) == 0
}
