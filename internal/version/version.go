package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
// Handles "v" prefix tolerance (strips leading "v" before parsing).
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// IsOlder reports whether the stored configuration version is strictly older
// than the running tool version.
//
// A running version that is not semver (a "dev" build) is treated as newer
// than anything stored, so development builds always reconfigure. A stored
// version that does not parse is an error.
func IsOlder(stored, running string) (bool, error) {
	if !IsValid(running) {
		if _, err := parseSemver(stored); err != nil {
			return false, fmt.Errorf("parsing stored version %q: %w", stored, err)
		}
		return true, nil
	}
	cmp, err := CompareVersions(stored, running)
	if err != nil {
		return false, err
	}
	return cmp == -1, nil
}

// IsValid reports whether v parses as a semantic version.
func IsValid(v string) bool {
	_, err := parseSemver(v)
	return err == nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
