package native

import (
	"context"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// Zypper drives zypper on openSUSE and SLES.
type Zypper struct {
	*BaseManager
}

// NewZypper creates a new Zypper manager instance.
func NewZypper(runner Runner) *Zypper {
	return &Zypper{BaseManager: NewBaseManager(manager.KindZypper, runner)}
}

// Refresh refreshes all enabled repositories.
func (z *Zypper) Refresh(ctx context.Context) error {
	_, err := z.run(ctx, "refresh")
	return err
}

// Upgrade updates installed packages without prompting.
func (z *Zypper) Upgrade(ctx context.Context) (string, error) {
	out, err := z.run(ctx, "update", "-y")
	return out.Stdout, err
}
