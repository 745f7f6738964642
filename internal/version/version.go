// Package version holds build metadata for the prodex binary, injected
// via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata in one line, e.g.
// "prodex dev (commit unknown, built unknown)".
func String() string {
	return "prodex " + Version + " (commit " + Commit + ", built " + Date + ")"
}
