// Package buildinfo holds release metadata stamped in with
// -ldflags "-X github.com/mymoney-dev/mymoney/internal/buildinfo.Version=...".
package buildinfo

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the source revision.
	Commit = "none"
	// Date is the build time.
	Date = "unknown"
)
