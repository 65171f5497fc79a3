// Package buildinfo holds version metadata stamped at build time via
// -ldflags "-X github.com/ahmetozturk/brandsite/internal/buildinfo.Version=...".
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	BuiltAt = "unknown"
)
