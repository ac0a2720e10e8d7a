package detector

import (
	"os/exec"
	"strings"
)

// darwinManager is the only package manager offdroid drives on macOS.
const darwinManager = "brew"

// DarwinInfo contains information about a macOS system.
type DarwinInfo struct {
	ProductName    string // e.g., "macOS"
	ProductVersion string // e.g., "14.0"
	BuildVersion   string // e.g., "23A344"
}

// DetectDarwin detects macOS version information.
func DetectDarwin() (*DarwinInfo, error) {
	info := &DarwinInfo{
		ProductName: "macOS",
	}

	if version, err := exec.Command("sw_vers", "-productVersion").Output(); err == nil {
		info.ProductVersion = strings.TrimSpace(string(version))
	}

	if build, err := exec.Command("sw_vers", "-buildVersion").Output(); err == nil {
		info.BuildVersion = strings.TrimSpace(string(build))
	}

	return info, nil
}

// PrettyName returns "macOS <version>" or just "macOS" if the version is unknown.
func (d *DarwinInfo) PrettyName() string {
	if d.ProductVersion == "" {
		return d.ProductName
	}
	return d.ProductName + " " + d.ProductVersion
}
