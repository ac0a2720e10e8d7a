// Package detector handles OS and distribution detection.
package detector

import (
	"runtime"
)

// OSType represents the detected operating system type.
type OSType string

const (
	OSLinux   OSType = "linux"
	OSDarwin  OSType = "darwin"
	OSWindows OSType = "windows"
	OSUnknown OSType = "unknown"
)

// SystemInfo contains information about the detected system.
type SystemInfo struct {
	OS           OSType
	Arch         string
	Distribution string   // Linux distribution ID (e.g., "ubuntu", "arch")
	DistroFamily []string // Related distributions (from ID_LIKE)
	PrettyName   string   // Human-readable name
	VersionID    string   // Distribution version
}

// Detect detects the current system's OS and distribution.
func Detect() (*SystemInfo, error) {
	info := &SystemInfo{
		Arch: runtime.GOARCH,
	}

	switch runtime.GOOS {
	case "linux":
		info.OS = OSLinux
		linuxInfo, err := DetectLinux()
		info.Distribution = linuxInfo.ID
		info.DistroFamily = linuxInfo.IDLike
		info.PrettyName = linuxInfo.PrettyName
		info.VersionID = linuxInfo.VersionID
		if err != nil {
			return info, err
		}
	case "darwin":
		info.OS = OSDarwin
		info.Distribution = "macos"
		darwinInfo, err := DetectDarwin()
		if err != nil {
			return info, err
		}
		info.PrettyName = darwinInfo.PrettyName()
		info.VersionID = darwinInfo.ProductVersion
	case "windows":
		info.OS = OSWindows
		info.Distribution = "windows"
		winInfo, err := DetectWindows()
		if err != nil {
			return info, err
		}
		info.PrettyName = winInfo.ProductName
		info.VersionID = winInfo.Version
	default:
		info.OS = OSUnknown
	}

	return info, nil
}

// ExpectedManager returns the package manager that normally ships with this
// system, or "" when there is no single answer.
func (s *SystemInfo) ExpectedManager() string {
	switch s.OS {
	case OSLinux:
		return ExpectedLinuxManager(s.Distribution, s.DistroFamily)
	case OSDarwin:
		return darwinManager
	}
	return ""
}
