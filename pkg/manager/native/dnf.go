package native

import (
	"context"
	"errors"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// DNF drives dnf on Fedora and RHEL derivatives.
type DNF struct {
	*BaseManager
}

// NewDNF creates a new DNF manager instance.
func NewDNF(runner Runner) *DNF {
	return &DNF{BaseManager: NewBaseManager(manager.KindDNF, runner)}
}

// Refresh runs dnf check-update. Its exit status (100 when updates are
// available) is ignored; only a failure to start the command is reported.
func (d *DNF) Refresh(ctx context.Context) error {
	_, err := d.run(ctx, "check-update")
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return nil
	}
	return err
}

// Upgrade upgrades installed packages without prompting.
func (d *DNF) Upgrade(ctx context.Context) (string, error) {
	out, err := d.run(ctx, "upgrade", "-y")
	return out.Stdout, err
}
