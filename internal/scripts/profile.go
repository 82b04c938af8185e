package scripts

import (
	"path"
	"strings"

	"github.com/wwscc/distbuilder/internal/config"
)

// LibPrefix is the classpath location of the runtime library directory,
// relative to the runtime's bin directory where launchers start the JVM.
const LibPrefix = "../lib"

// Profile is the per-platform launcher skeleton.
type Profile struct {
	Platform   config.Platform
	Extension  string // appended to the launcher name
	Separator  string // classpath separator
	Launcher   string // embedded launcher template
	LineEnding string
	Rules      bool // emit the firewall/service script
	Shell      bool // launchers are POSIX shell and get syntax checked
}

var (
	UnixProfile = Profile{
		Platform:   config.PlatformUnix,
		Separator:  ":",
		Launcher:   "launcher.sh.tmpl",
		LineEnding: "\n",
		Shell:      true,
	}
	WindowsProfile = Profile{
		Platform:   config.PlatformWindows,
		Extension:  ".bat",
		Separator:  ";",
		Launcher:   "launcher.bat.tmpl",
		LineEnding: "\r\n",
		Rules:      true,
	}
)

// ProfileFor returns the profile of a platform family.
func ProfileFor(p config.Platform) Profile {
	if p == config.PlatformWindows {
		return WindowsProfile
	}
	return UnixProfile
}

// Classpath joins LibPrefix/<name> for every library with the profile's
// separator, keeping the order of names.
func Classpath(names []string, p Profile) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = path.Join(LibPrefix, n)
	}
	return strings.Join(parts, p.Separator)
}

// ScriptName is the file name of a launcher on this profile.
func (p Profile) ScriptName(launcher string) string { return launcher + p.Extension }

func (p Profile) normalize(s string) string {
	if p.LineEnding == "\n" {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", p.LineEnding)
}
