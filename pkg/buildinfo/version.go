// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/branchpalette/branchpalette/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/branchpalette/branchpalette/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/branchpalette/branchpalette/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a multi-line summary for `branchpalette version`.
func String() string {
	return fmt.Sprintf("branchpalette %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}

// Generator identifies this build in generated artifacts.
func Generator() string {
	return "branchpalette/" + Version
}
