package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/wwscc/distbuilder/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return "distbuilder " + Version
	}
	return "distbuilder " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
