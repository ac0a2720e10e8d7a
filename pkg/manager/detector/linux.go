package detector

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// osReleasePaths are read in order; the first readable file wins.
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// LinuxInfo holds the os-release fields offdroid reports.
type LinuxInfo struct {
	ID         string
	IDLike     []string
	VersionID  string
	PrettyName string
}

// DetectLinux identifies the distribution from os-release. When no file can
// be read the info is reported as unknown together with the last error.
func DetectLinux() (*LinuxInfo, error) {
	var lastErr error
	for _, path := range osReleasePaths {
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		info, err := ReadOSRelease(f)
		f.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return info, nil
	}

	if lastErr == nil {
		lastErr = os.ErrNotExist
	}
	return &LinuxInfo{ID: "unknown", PrettyName: "Unknown Linux"}, lastErr
}

// ReadOSRelease parses os-release KEY=VALUE lines. Values may be quoted with
// single or double quotes; comments and unknown keys are ignored.
func ReadOSRelease(r io.Reader) (*LinuxInfo, error) {
	info := &LinuxInfo{}
	var name string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = unquote(strings.TrimSpace(value))

		switch strings.TrimSpace(key) {
		case "ID":
			info.ID = strings.ToLower(value)
		case "ID_LIKE":
			info.IDLike = strings.Fields(strings.ToLower(value))
		case "VERSION_ID":
			info.VersionID = value
		case "PRETTY_NAME":
			info.PrettyName = value
		case "NAME":
			name = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if info.ID == "" {
		return nil, errors.New("os-release has no ID field")
	}
	if info.PrettyName == "" {
		info.PrettyName = strings.TrimSpace(name + " " + info.VersionID)
	}
	return info, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// managerFamilies lists, per package manager, the distribution IDs that ship
// it. Derivatives are matched through their ID_LIKE entries.
var managerFamilies = []struct {
	manager string
	ids     []string
}{
	{"apt", []string{"debian", "ubuntu", "linuxmint", "pop", "elementary", "raspbian"}},
	{"zypper", []string{"opensuse", "opensuse-leap", "opensuse-tumbleweed", "sles", "suse"}},
	{"dnf", []string{"fedora", "rhel", "centos", "rocky", "almalinux"}},
	{"pacman", []string{"arch", "manjaro", "endeavouros"}},
}

// ExpectedLinuxManager returns the package manager that ships with a
// distribution, checking its own ID before the ID_LIKE family.
// It returns "" for distributions offdroid does not know.
func ExpectedLinuxManager(id string, idLike []string) string {
	for _, candidate := range append([]string{id}, idLike...) {
		for _, fam := range managerFamilies {
			for _, known := range fam.ids {
				if candidate == known {
					return fam.manager
				}
			}
		}
	}
	return ""
}
