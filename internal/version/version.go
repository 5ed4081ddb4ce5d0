// Package version provides build version information for notevault.
// Variables are set at build time via ldflags:
//
//	go build -ldflags="-X github.com/jpl-au/notevault/internal/version.Version=v1.0.0 \
//	  -X github.com/jpl-au/notevault/internal/version.GitCommit=abc123 \
//	  -X github.com/jpl-au/notevault/internal/version.BuildTime=2026-08-28T10:30:00Z"
package version

import (
	"fmt"
	"runtime"
)

// Build information. Set via ldflags at build time.
var (
	Version   = "dev"     // Version tag (e.g., "v1.0.0")
	GitCommit = "unknown" // Short git commit hash
	BuildTime = "unknown" // RFC3339 build timestamp
)

// String returns the full version line shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)",
		Version, GitCommit, BuildTime, runtime.Version())
}
