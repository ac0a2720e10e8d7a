// Package history records every update run in a BoltDB database.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operation is the kind of run an entry records.
type Operation string

const (
	OpUpdate     Operation = "update"
	OpSelfUpdate Operation = "self-update"
)

// Entry represents a single run in the history.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Operation Operation `json:"operation" yaml:"operation"`
	Manager   string    `json:"manager,omitempty" yaml:"manager,omitempty"`
	Packages  []string  `json:"packages" yaml:"packages"`
	Success   bool      `json:"success" yaml:"success"`
	DryRun    bool      `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`

	// Set for self-update runs.
	FromVersion string `json:"from_version,omitempty" yaml:"from_version,omitempty"`
	ToVersion   string `json:"to_version,omitempty" yaml:"to_version,omitempty"`
}

// NewEntry creates a new history entry. It starts out failed and is marked
// successful once the run completes.
func NewEntry(op Operation, manager string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Operation: op,
		Manager:   manager,
	}
}

// MarkSuccess marks the entry as successful with the packages the run changed.
func (e *Entry) MarkSuccess(packages []string) {
	e.Success = true
	e.Error = ""
	e.Packages = packages
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// ShortID returns the first block of the entry ID.
func (e *Entry) ShortID() string {
	if len(e.ID) < 8 {
		return e.ID
	}
	return e.ID[:8]
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Status returns "success", "failed" or "dry-run".
func (e *Entry) Status() string {
	switch {
	case !e.Success:
		return "failed"
	case e.DryRun:
		return "dry-run"
	}
	return "success"
}

// Summary returns a brief summary of the run.
func (e *Entry) Summary() string {
	switch {
	case e.Operation == OpSelfUpdate:
		return fmt.Sprintf("%s %s %s -> %s (%s)", e.FormatTime(), e.Operation, e.FromVersion, e.ToVersion, e.Status())
	case len(e.Packages) == 0:
		return fmt.Sprintf("%s %s [%s] (%s)", e.FormatTime(), e.Operation, e.Manager, e.Status())
	}
	return fmt.Sprintf("%s %s [%s] %d packages (%s)", e.FormatTime(), e.Operation, e.Manager, len(e.Packages), e.Status())
}
