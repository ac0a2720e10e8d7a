// Package logging provides the process-wide diagnostic logger.
//
// User-facing output goes through the ui package; this logger is for
// diagnostics on stderr and stays quiet unless something goes wrong or
// verbose output is requested.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

const prefix = "offdroid"

var (
	mu      sync.Mutex
	current = New(os.Stderr, false)
)

// New creates a logger writing to w. Verbose loggers emit debug records.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: prefix,
		Level:  log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
	return logger
}

// Init replaces the process logger.
func Init(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	current = New(os.Stderr, verbose)
}

// Logger returns the process logger.
func Logger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
