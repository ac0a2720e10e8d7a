// Package parser extracts package names from the text output of an upgrade.
//
// Package manager output is not versioned, so every strategy is best effort:
// anything it cannot recognize is skipped and the result is simply shorter.
package parser

import (
	"regexp"
	"strings"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// Strategy extracts package names from one manager's upgrade output.
type Strategy interface {
	Parse(text string) []string
}

// StrategyFunc adapts a plain function to a Strategy.
type StrategyFunc func(text string) []string

// Parse calls f(text).
func (f StrategyFunc) Parse(text string) []string {
	return f(text)
}

var (
	aptPattern    = regexp.MustCompile(`^(Unpacking|Setting up) ([\w\-.]+)`)
	dnfPattern    = regexp.MustCompile(`(Upgrading|Installing)\s+:\s+([\w\-.]+)`)
	pacmanPattern = regexp.MustCompile(`(?i)upgrading ([\w\-.]+)`)
	brewPattern   = regexp.MustCompile(`Upgrading ([\w\-.]+)`)
)

var strategies = map[manager.Kind]Strategy{
	manager.KindAPT:    StrategyFunc(parseAPT),
	manager.KindZypper: StrategyFunc(parseZypper),
	manager.KindDNF:    StrategyFunc(parseDNF),
	manager.KindPacman: StrategyFunc(parsePacman),
	manager.KindBrew:   StrategyFunc(parseBrew),
}

// Parse extracts the package names reported in text by the given manager.
// It never fails: unknown kinds and unrecognized output yield an empty result.
func Parse(kind manager.Kind, text string) manager.UpdateResult {
	s, ok := strategies[kind]
	if !ok {
		return manager.UpdateResult{}
	}
	pkgs := s.Parse(text)
	if pkgs == nil {
		return manager.UpdateResult{}
	}
	return manager.UpdateResult(pkgs)
}

func lines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// parseAPT is the only strategy that drops duplicates, since apt reports each
// package once while unpacking and again while setting it up.
func parseAPT(text string) []string {
	var pkgs []string
	seen := make(map[string]bool)
	for _, line := range lines(text) {
		if !strings.HasPrefix(line, "Unpacking") && !strings.HasPrefix(line, "Setting up") {
			continue
		}
		m := aptPattern.FindStringSubmatch(line)
		if m == nil || seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		pkgs = append(pkgs, m[2])
	}
	return pkgs
}

// parseZypper collects the words listed under "The following ... package"
// headers. zypper prints one header per section (upgraded, new, removed), and
// every header is skipped.
func parseZypper(text string) []string {
	var pkgs []string
	collecting := false
	for _, line := range lines(text) {
		if strings.Contains(line, "The following") && strings.Contains(line, "package") {
			collecting = true
			continue
		}
		if collecting {
			pkgs = append(pkgs, strings.Fields(line)...)
		}
	}
	return pkgs
}

func parseDNF(text string) []string {
	var pkgs []string
	for _, line := range lines(text) {
		if !strings.HasPrefix(line, "Upgrading") && !strings.HasPrefix(line, "Installing") {
			continue
		}
		if m := dnfPattern.FindStringSubmatch(line); m != nil {
			pkgs = append(pkgs, m[2])
		}
	}
	return pkgs
}

func parsePacman(text string) []string {
	var pkgs []string
	for _, line := range lines(text) {
		if !strings.Contains(strings.ToLower(line), "upgrading") {
			continue
		}
		if m := pacmanPattern.FindStringSubmatch(line); m != nil {
			pkgs = append(pkgs, m[1])
		}
	}
	return pkgs
}

func parseBrew(text string) []string {
	var pkgs []string
	for _, line := range lines(text) {
		if !strings.HasPrefix(line, "==>") || !strings.Contains(line, "Upgrading") {
			continue
		}
		if m := brewPattern.FindStringSubmatch(line); m != nil {
			pkgs = append(pkgs, m[1])
		}
	}
	return pkgs
}
