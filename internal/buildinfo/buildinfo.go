// Package buildinfo exposes build metadata stamped in via -ldflags.
package buildinfo

import "fmt"

// Set at build time, e.g.
// go build -ldflags "-X .../internal/buildinfo.Version=v1.2.0 -X .../internal/buildinfo.CommitHash=$(git rev-parse --short HEAD)"
var (
	Version    = "dev"
	CommitHash string
	BuildTime  string
)

// Summary renders a one-line version string for startup logs
func Summary() string {
	s := Version
	if CommitHash != "" {
		s = fmt.Sprintf("%s (%s)", s, CommitHash)
	}
	if BuildTime != "" {
		s = fmt.Sprintf("%s built %s", s, BuildTime)
	}
	return s
}
