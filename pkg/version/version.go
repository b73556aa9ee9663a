package version

import "runtime/debug"

const UnreleasedVersion = "dev"

// Version is the released version of the binary, set at link time:
// -ldflags "-X github.com/treeverse/git-recycle-bin/pkg/version.Version=v1.0.0"
var Version = UnreleasedVersion

// IsUnreleased reports whether this is a development build
func IsUnreleased() bool {
	return Version == UnreleasedVersion
}

// Commit returns the vcs revision the binary was built from, when the toolchain recorded one
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return ""
}
