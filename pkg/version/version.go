// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Build metadata. Release builds override these with
// -ldflags "-X github.com/Sumatoshi-tech/modcheck/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

var initOnce sync.Once

// InitBinaryVersion fills unset metadata from the module build info, so
// `go install` builds still report something useful.
func InitBinaryVersion() {
	initOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}

		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if Commit == "<unknown>" {
					Commit = setting.Value
				}
			case "vcs.time":
				if Date == "<unknown>" {
					Date = setting.Value
				}
			}
		}
	})
}

// String formats the metadata for `modcheck version`.
func String() string {
	return fmt.Sprintf("modcheck %s (commit: %s, built: %s)", Version, Commit, Date)
}
