package manager

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager/detector"
)

// Registry holds the package managers offdroid knows how to drive and the one
// selected for this host.
type Registry struct {
	managers map[Kind]Manager
	native   Manager
	sysInfo  *detector.SystemInfo
	lookPath LookPathFunc
	mu       sync.RWMutex
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithLookPath overrides the executable probe used by Detect.
func WithLookPath(fn LookPathFunc) RegistryOption {
	return func(r *Registry) {
		r.lookPath = fn
	}
}

// NewRegistry creates a new package manager registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		managers: make(map[Kind]Manager),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a manager to the registry, replacing any manager of the same kind.
func (r *Registry) Register(mgr Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers[mgr.Kind()] = mgr
}

// Detect identifies the host system and selects the first registered manager
// whose executable is present, in priority order. System identification is
// best effort: a partial SystemInfo is kept and never blocks manager selection.
func (r *Registry) Detect() error {
	info, _ := detector.Detect()
	r.mu.Lock()
	r.sysInfo = info
	r.mu.Unlock()

	kind, err := Detect(r.lookPath)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	mgr, ok := r.managers[kind]
	if !ok {
		return fmt.Errorf("%s detected but no driver is registered for it", kind)
	}
	r.native = mgr
	return nil
}

// Select overrides detection with a specific kind. The kind must have a
// registered driver and its executable must be on the search path.
func (r *Registry) Select(kind Kind) error {
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(kind.Binary()); err != nil {
		return fmt.Errorf("%s is not installed: %w", kind.Binary(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	mgr, ok := r.managers[kind]
	if !ok {
		return fmt.Errorf("no driver is registered for %s", kind)
	}
	r.native = mgr
	return nil
}

// Native returns the manager selected by Detect, or nil before detection.
func (r *Registry) Native() Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.native
}

// Get returns the manager registered for a kind.
func (r *Registry) Get(kind Kind) (Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mgr, ok := r.managers[kind]
	return mgr, ok
}

// Available returns every registered manager whose executable is present, in priority order.
func (r *Registry) Available() []Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var available []Manager
	for _, k := range DetectAll(r.lookPath) {
		if mgr, ok := r.managers[k]; ok {
			available = append(available, mgr)
		}
	}
	return available
}

// All returns all registered managers in priority order.
func (r *Registry) All() []Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()

	managers := make([]Manager, 0, len(r.managers))
	for _, k := range Kinds {
		if mgr, ok := r.managers[k]; ok {
			managers = append(managers, mgr)
		}
	}
	return managers
}

// SystemInfo returns the detected system information.
func (r *Registry) SystemInfo() *detector.SystemInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sysInfo
}
