package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info holds structured build information suitable for JSON serialization.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// GetInfo returns the current build information. Release builds set the
// package variables via ldflags; for plain `go build`/`go install` builds
// the VCS stamp embedded by the toolchain fills the gaps.
func GetInfo() Info {
	info := Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
	if info.Version != "dev" && info.Commit != "unknown" {
		return info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" && len(s.Value) >= 7 {
				info.Commit = s.Value[:7]
			}
		case "vcs.time":
			if info.Date == "unknown" && s.Value != "" {
				info.Date = s.Value
			}
		}
	}
	return info
}

// String returns a human-readable version string.
// Example: "ecm v1.2.0 (commit: a1b2c3d, built: 2026-08-30T10:00:00Z)"
func (i Info) String() string {
	return fmt.Sprintf("ecm v%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
