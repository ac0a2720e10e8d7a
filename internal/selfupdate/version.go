package selfupdate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion indicates a version string that is not a dot-separated list of integers.
var ErrInvalidVersion = errors.New("invalid version")

// VersionTuple is a parsed dot-separated version such as 1.10.0.
type VersionTuple []int

// ParseVersion parses a version string like "v1.2.3" into a VersionTuple.
// A leading v or V is stripped, and any pre-release or build suffix
// ("-dev", "+abc") is ignored.
func ParseVersion(s string) (VersionTuple, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	parts := strings.Split(v, ".")
	tuple := make(VersionTuple, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		tuple = append(tuple, n)
	}
	return tuple, nil
}

// Compare returns -1, 0 or 1 depending on whether v is older than, equal to
// or newer than other. Components are compared as integers; when one tuple is
// a prefix of the other, the longer one wins only if an extra component is non-zero.
func (v VersionTuple) Compare(other VersionTuple) int {
	n := max(len(v), len(other))
	for i := 0; i < n; i++ {
		a, b := v.at(i), other.at(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Newer reports whether v is strictly newer than other.
func (v VersionTuple) Newer(other VersionTuple) bool {
	return v.Compare(other) > 0
}

func (v VersionTuple) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

func (v VersionTuple) at(i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}
