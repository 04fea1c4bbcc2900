// Package version holds build metadata injected with -ldflags -X.
package version

import "fmt"

// Build metadata. Overridden at build time, e.g.
// -X github.com/bissquit/taskboard/internal/version.Version=1.2.0
var (
	Version   = "0.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String formats the build metadata for --version output.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
