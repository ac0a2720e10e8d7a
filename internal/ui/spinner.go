package ui

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner wraps the spinner library for consistent styling.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	charSet := spinner.CharSets[14] // ⣾⣽⣻⢿⡿⣟⣯⣷
	if !UseUnicode {
		charSet = spinner.CharSets[9] // |/-\
	}

	s := spinner.New(charSet, 100*time.Millisecond, spinner.WithWriter(color.Output), spinner.WithHiddenCursor(true))
	s.Suffix = " " + message

	if UseColors {
		_ = s.Color("cyan")
	}

	return &Spinner{s: s}
}

// Start starts the spinner.
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// Spin runs fn behind a spinner and returns its result. The spinner is
// cleared before returning so the caller decides what to print.
func Spin[T any](message string, fn func() (T, error)) (T, error) {
	sp := NewSpinner(message)
	sp.Start()
	defer sp.Stop()
	return fn()
}
