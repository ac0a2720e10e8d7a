package native

import (
	"context"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// APT drives apt-get on Debian, Ubuntu and their derivatives.
type APT struct {
	*BaseManager
}

// NewAPT creates a new APT manager instance.
func NewAPT(runner Runner) *APT {
	return &APT{BaseManager: NewBaseManager(manager.KindAPT, runner)}
}

// Refresh downloads the package lists.
func (a *APT) Refresh(ctx context.Context) error {
	_, err := a.run(ctx, "update")
	return err
}

// Upgrade upgrades installed packages without prompting.
func (a *APT) Upgrade(ctx context.Context) (string, error) {
	out, err := a.run(ctx, "upgrade", "-y")
	return out.Stdout, err
}
