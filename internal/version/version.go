package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the current released version.
var Version = "0.2.1"

// DevVersion is the current development version.
var DevVersion = "0.2.1"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}

// GetSchemaVersion returns the schema version this build expects.
// Only the major.minor pair participates, so patch releases never
// trigger a migration.
func GetSchemaVersion(mode string) string {
	v := GetCurrentVersion(mode)
	parts := strings.Split(v, ".")
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1] + ".0"
	}
	return v
}

// IsVersionGreaterThan reports whether version a is newer than b.
// Inputs are bare "x.y.z" strings without the "v" prefix.
func IsVersionGreaterThan(a, b string) bool {
	return semver.Compare(canonical(a), canonical(b)) > 0
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
