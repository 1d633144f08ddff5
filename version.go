package apkcfg

import (
	"runtime/debug"

	xstrings "github.com/frantjc/x/strings"
	"golang.org/x/mod/semver"
)

var (
	// Version is set at build time with -ldflags.
	Version = "0.0.0"
	// Prerelease is set at build time with -ldflags.
	Prerelease = ""
)

// SemVer returns the semantic version of apkcfg as built
// from Version, Prerelease and, if available, the VCS revision.
func SemVer() string {
	v := xstrings.EnsurePrefix(Version, "v")
	if Prerelease != "" {
		v += "-" + Prerelease
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				v += "+" + setting.Value[:7]
				break
			}
		}
	}

	if !semver.IsValid(v) {
		return "v0.0.0"
	}

	return v
}
