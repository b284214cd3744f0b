// Package version exposes build metadata. Release builds set the variables
// with -ldflags, for example
//
//	go build -ldflags "-X github.com/MeKo-Tech/imgproc/internal/version.Version=v1.2.0" ./cmd/imgproc
package version

import (
	"fmt"
	"runtime/debug"
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info returns version, commit and build date. Values not set by ldflags
// fall back to the VCS stamp the go tool embeds in the binary.
func Info() (string, string, string) {
	version, commit, date := Version, GitCommit, BuildDate

	info, ok := readBuildInfo()
	if !ok {
		return version, commit, date
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "unknown" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "unknown" {
				date = s.Value
			}
		}
	}
	return version, commit, date
}

// String returns a one-line summary.
func String() string {
	v, commit, date := Info()
	return fmt.Sprintf("imgproc %s (commit: %s, built: %s)", v, commit, date)
}
