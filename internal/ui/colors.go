// Package ui provides terminal output helpers for offdroid.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan)
	Header  = color.New(color.FgMagenta, color.Bold)
	Muted   = color.New(color.FgHiBlack)

	PackageName = color.New(color.FgWhite, color.Bold)
	Version     = color.New(color.FgGreen)
)

// UseColors represents whether colors should be used.
var UseColors = true

// UseUnicode represents whether unicode symbols should be used.
var UseUnicode = true

// Symbols for status indicators
var (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "→"
	SymbolBullet  = "•"
)

// Init initializes the UI settings based on configuration.
func Init(useColors, useUnicode bool) {
	UseColors = useColors && os.Getenv("NO_COLOR") == ""
	UseUnicode = useUnicode
	color.NoColor = !UseColors

	if useUnicode {
		SymbolSuccess, SymbolError, SymbolWarning, SymbolInfo, SymbolBullet = "✓", "✗", "!", "→", "•"
	} else {
		SymbolSuccess, SymbolError, SymbolWarning, SymbolInfo, SymbolBullet = "[OK]", "[ERROR]", "[WARN]", "->", "*"
	}
}

// SetOutput redirects every message helper to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := color.Output
	color.Output = w
	return prev
}

// Output returns the writer message helpers print to.
func Output() io.Writer {
	return color.Output
}

// SuccessMsg prints a success message.
func SuccessMsg(format string, args ...any) {
	Success.Printf(SymbolSuccess+" "+format+"\n", args...)
}

// ErrorMsg prints an error message.
func ErrorMsg(format string, args ...any) {
	Error.Printf(SymbolError+" "+format+"\n", args...)
}

// WarningMsg prints a warning message.
func WarningMsg(format string, args ...any) {
	Warning.Printf(SymbolWarning+" "+format+"\n", args...)
}

// InfoMsg prints an info message.
func InfoMsg(format string, args ...any) {
	Info.Printf(SymbolInfo+" "+format+"\n", args...)
}

// HeaderMsg prints a header message.
func HeaderMsg(format string, args ...any) {
	Header.Printf("\n"+format+"\n", args...)
}

// MutedMsg prints a muted (dim) message.
func MutedMsg(format string, args ...any) {
	Muted.Printf(format+"\n", args...)
}

// Println prints a plain line with formatting.
func Println(format string, args ...any) {
	fmt.Fprintf(color.Output, format+"\n", args...)
}

// Bold returns a bold string.
func Bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

// Cyan returns a cyan string.
func Cyan(s string) string {
	return color.CyanString(s)
}
