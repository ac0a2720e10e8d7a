package native

import (
	"context"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// Brew drives Homebrew on macOS and Linux. It never runs under sudo.
type Brew struct {
	*BaseManager
}

// NewBrew creates a new Homebrew manager instance.
func NewBrew(runner Runner) *Brew {
	return &Brew{BaseManager: NewBaseManager(manager.KindBrew, runner)}
}

// Refresh fetches the newest Homebrew and formulae.
func (b *Brew) Refresh(ctx context.Context) error {
	_, err := b.run(ctx, "update")
	return err
}

// Upgrade upgrades outdated formulae and casks.
func (b *Brew) Upgrade(ctx context.Context) (string, error) {
	out, err := b.run(ctx, "upgrade")
	return out.Stdout, err
}
