// Package manager provides the core abstraction for the host package managers offdroid drives.
package manager

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported package managers.
type Kind string

const (
	// KindAPT is Debian/Ubuntu's apt-get.
	KindAPT Kind = "apt"
	// KindZypper is openSUSE's zypper.
	KindZypper Kind = "zypper"
	// KindDNF is Fedora/RHEL's dnf.
	KindDNF Kind = "dnf"
	// KindPacman is Arch Linux's pacman.
	KindPacman Kind = "pacman"
	// KindBrew is Homebrew (macOS and Linux).
	KindBrew Kind = "brew"
)

// Kinds lists every supported kind in detection priority order.
// A host may have several managers installed (brew next to apt, for example);
// the first one found in this order wins.
var Kinds = []Kind{KindAPT, KindZypper, KindDNF, KindPacman, KindBrew}

// kindInfo holds static information about a kind.
type kindInfo struct {
	binary      string
	displayName string
	needsSudo   bool
}

var kindTable = map[Kind]kindInfo{
	KindAPT:    {binary: "apt-get", displayName: "APT (Debian/Ubuntu)", needsSudo: true},
	KindZypper: {binary: "zypper", displayName: "Zypper (openSUSE)", needsSudo: true},
	KindDNF:    {binary: "dnf", displayName: "DNF (Fedora/RHEL)", needsSudo: true},
	KindPacman: {binary: "pacman", displayName: "Pacman (Arch Linux)", needsSudo: true},
	KindBrew:   {binary: "brew", displayName: "Homebrew", needsSudo: false},
}

// String returns the short identifier of the kind.
func (k Kind) String() string {
	return string(k)
}

// Binary returns the executable probed for and invoked for this kind.
func (k Kind) Binary() string {
	return kindTable[k].binary
}

// DisplayName returns a human-readable name (e.g., "APT (Debian/Ubuntu)").
func (k Kind) DisplayName() string {
	if info, ok := kindTable[k]; ok {
		return info.displayName
	}
	return string(k)
}

// NeedsSudo reports whether the kind requires root privileges to refresh and upgrade.
func (k Kind) NeedsSudo() bool {
	return kindTable[k].needsSudo
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// ParseKind converts a name such as "apt" or "apt-get" into a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds {
		if name == string(k) || name == k.Binary() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown package manager: %q", name)
}
