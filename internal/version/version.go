// Package version provides version information for the publisher binary.
package version

import "fmt"

// Version information - injected via ldflags during release builds
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the version string.
// Returns "dev" for development builds, or the actual release version.
func GetVersion() string {
	return Version
}

// GetFullVersion returns version with build information.
// Format: "v2.0.0 (commit: abc123, built: 2026-01-10T10:30:00Z)"
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
