package common

import "runtime/debug"

// ReleaseVersion is reported when no better version is available from the build.
const ReleaseVersion = "2.0.0"

// version can be set at build time with -ldflags "-X github.com/neushore/proxima/common.version=..."
var version string

// Version returns the bot's version: the linker-set version if there is one,
// then the module version, then the VCS revision the binary was built from.
func Version() string {
	if version != "" {
		return version
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ReleaseVersion
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var rev string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if rev == "" {
		return ReleaseVersion
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if dirty {
		rev += "-dirty"
	}
	return ReleaseVersion + "+" + rev
}
