// Package buildinfo reports the version of the running binary.
package buildinfo

import (
	"runtime/debug"
	"sync"
)

// Set via -ldflags at build time:
//
//	-X 'github.com/m3rciful/gotto/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/m3rciful/gotto/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/gotto/core/buildinfo.Date=2025-08-30T12:00:00Z'
var (
	Version = "dev"
	Commit  = "local"
	Date    = ""
)

// Info describes the running build.
type Info struct {
	Version string
	Commit  string
	Date    string
}

var (
	once     sync.Once
	resolved Info
)

// Get returns the ldflags values, filling unset commit and date from the
// VCS stamps the go tool embeds.
func Get() Info {
	once.Do(func() {
		bi, _ := debug.ReadBuildInfo()
		resolved = resolve(Info{Version: Version, Commit: Commit, Date: Date}, bi)
	})
	return resolved
}

func resolve(info Info, bi *debug.BuildInfo) Info {
	if bi == nil {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "local" && s.Value != "" {
				info.Commit = s.Value[:min(len(s.Value), 12)]
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		}
	}
	return info
}
