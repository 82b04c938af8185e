package version

import "testing"

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Default value should be "unknown" until set by build
	if Version != "unknown" {
		t.Logf("Version is: %s (expected 'unknown' or version set via ldflags)", Version)
	}
}

func TestString(t *testing.T) {
	origV, origC, origB := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = origV, origC, origB })

	Version, GitCommit, BuildTime = "v1.2.3", "unknown", "unknown"
	if got := String(); got != "distbuilder v1.2.3" {
		t.Errorf("String() = %q", got)
	}

	GitCommit, BuildTime = "abc123", "2024-01-01"
	if got := String(); got != "distbuilder v1.2.3 (commit abc123, built 2024-01-01)" {
		t.Errorf("String() = %q", got)
	}
}
