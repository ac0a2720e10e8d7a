package native

import (
	"context"
	"fmt"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager/parser"
)

// Result is the outcome of one refresh + upgrade run.
type Result struct {
	Kind     manager.Kind
	Output   string
	Packages manager.UpdateResult
}

// Driver is implemented by every manager in this package.
type Driver interface {
	manager.Manager
	SetNotify(fn func(command string))
	SetLookPath(fn manager.LookPathFunc)
	Version(ctx context.Context) (string, error)
}

// New returns the driver for kind.
func New(kind manager.Kind, runner Runner) (Driver, error) {
	switch kind {
	case manager.KindAPT:
		return NewAPT(runner), nil
	case manager.KindZypper:
		return NewZypper(runner), nil
	case manager.KindDNF:
		return NewDNF(runner), nil
	case manager.KindPacman:
		return NewPacman(runner), nil
	case manager.KindBrew:
		return NewBrew(runner), nil
	}
	return nil, fmt.Errorf("unsupported package manager: %s", kind)
}

// NewAll returns a driver for every supported kind in priority order.
func NewAll(runner Runner) []Driver {
	drivers := make([]Driver, 0, len(manager.Kinds))
	for _, k := range manager.Kinds {
		d, err := New(k, runner)
		if err != nil {
			continue
		}
		drivers = append(drivers, d)
	}
	return drivers
}

// RegisterAll adds every supported driver to the registry.
func RegisterAll(r *manager.Registry, runner Runner) {
	for _, d := range NewAll(runner) {
		r.Register(d)
	}
}

// Drive refreshes the package metadata, then upgrades every package, and
// parses the upgrade output into the list of changed packages. The first
// failing step aborts the run; nothing is retried.
func Drive(ctx context.Context, mgr manager.Manager) (*Result, error) {
	if err := mgr.Refresh(ctx); err != nil {
		return nil, err
	}

	output, err := mgr.Upgrade(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		Kind:     mgr.Kind(),
		Output:   output,
		Packages: parser.Parse(mgr.Kind(), output),
	}, nil
}
