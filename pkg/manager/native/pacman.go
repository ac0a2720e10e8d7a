package native

import (
	"context"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// Pacman drives pacman on Arch Linux and its derivatives.
type Pacman struct {
	*BaseManager
}

// NewPacman creates a new Pacman manager instance.
func NewPacman(runner Runner) *Pacman {
	return &Pacman{BaseManager: NewBaseManager(manager.KindPacman, runner)}
}

// Refresh synchronizes the package databases.
func (p *Pacman) Refresh(ctx context.Context) error {
	_, err := p.run(ctx, "-Sy")
	return err
}

// Upgrade upgrades installed packages without prompting.
func (p *Pacman) Upgrade(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "-Su", "--noconfirm")
	return out.Stdout, err
}
