// Package version exposes build version information.
package version

import "fmt"

// Set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a human-readable version line.
func Info() string {
	return fmt.Sprintf("opteam %s (commit %s, built %s)", Version, Commit, Date)
}
