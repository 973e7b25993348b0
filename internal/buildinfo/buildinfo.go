// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Populated by -ldflags at build time, e.g.
//
//	-X github.com/go-ports/minimble/internal/buildinfo.Version=v1.2.0
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// ResolvedVersion returns Version, falling back to the module version recorded
// by `go install` when no ldflags were supplied.
func ResolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

// String formats the build information for `minimble version`.
func String() string {
	return fmt.Sprintf("minimble %s (commit %s, built %s)", ResolvedVersion(), GitCommit, BuildDate)
}
