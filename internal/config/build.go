package config

import (
	"path/filepath"
	"strings"

	derrors "github.com/wwscc/distbuilder/internal/errors"
)

// Platform is the operating system family a distribution is built for.
type Platform string

const (
	PlatformUnix    Platform = "unix"
	PlatformWindows Platform = "windows"
)

// Options are the raw invocation parameters of a build.
type Options struct {
	Modules string
	JDK     string
	App     string

	// Dest selects the legacy variant: the runtime directory is given
	// directly and no archive is produced.
	Dest string

	Target  string
	Version string

	BuildRoot   string // overrides Config.BuildRoot when set
	SkipRuntime bool
}

// BuildConfig is the immutable, fully resolved configuration of one build.
// Build steps receive it by pointer and must not modify it.
type BuildConfig struct {
	Product  string
	Modules  string
	JDK      string
	App      string
	Target   string
	Version  string
	Platform Platform

	BuildRoot   string
	RuntimeDir  string
	Legacy      bool
	SkipRuntime bool

	Launchers []Launcher
	Windows   WindowsConfig
}

// Resolve validates opts against the required parameter set and derives the
// build layout. Missing parameters are reported as usage errors before any
// filesystem access happens.
func Resolve(opts Options, cfg *Config) (*BuildConfig, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return ResolveLayout(opts, cfg)
}

// Validate checks that every required invocation parameter is present.
func (o Options) Validate() error {
	required := []struct {
		flag  string
		value string
	}{
		{"modules", o.Modules},
		{"jdk", o.JDK},
		{"app", o.App},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return derrors.MissingFlag(r.flag)
		}
	}
	switch {
	case o.Target != "" || o.Version != "":
		if o.Target == "" {
			return derrors.MissingFlag("target")
		}
		if o.Version == "" {
			return derrors.MissingFlag("version")
		}
	case o.Dest == "":
		return derrors.MissingFlag("target")
	}
	return nil
}

// ResolveLayout derives the output layout only: build root, target, runtime
// directory and platform. Commands that inspect a previous build use it
// without needing the JDK and application inputs.
func ResolveLayout(opts Options, cfg *Config) (*BuildConfig, error) {
	if cfg == nil {
		cfg = Default()
	}
	bc := &BuildConfig{
		Product:     cfg.Product,
		Modules:     opts.Modules,
		JDK:         opts.JDK,
		App:         opts.App,
		SkipRuntime: opts.SkipRuntime,
		Windows:     copyWindows(cfg.Windows),
	}

	bc.BuildRoot = cfg.BuildRoot
	if opts.BuildRoot != "" {
		bc.BuildRoot = opts.BuildRoot
	}

	switch {
	case opts.Target != "" || opts.Version != "":
		if opts.Target == "" {
			return nil, derrors.MissingFlag("target")
		}
		if opts.Version == "" {
			return nil, derrors.MissingFlag("version")
		}
		if strings.ContainsAny(opts.Target, `/\`) || opts.Target == "." || opts.Target == ".." {
			return nil, derrors.ValidationFailed("target", "must be a plain platform name")
		}
		if strings.ContainsAny(opts.Version, `/\`) {
			return nil, derrors.ValidationFailed("version", "must not contain path separators")
		}
		bc.Target = opts.Target
		bc.Version = opts.Version
		bc.Platform = PlatformFor(opts.Target)
		bc.RuntimeDir = filepath.Join(bc.BuildRoot, opts.Target)
	case opts.Dest != "":
		// Legacy variant: the platform is inferred from the JDK location.
		bc.Legacy = true
		bc.RuntimeDir = opts.Dest
		bc.Platform = PlatformUnix
		if strings.Contains(opts.JDK, "win") {
			bc.Platform = PlatformWindows
		}
		bc.Target = string(bc.Platform)
	default:
		return nil, derrors.MissingFlag("target")
	}
	bc.Launchers = cfg.LaunchersFor(bc.Legacy)

	return bc, nil
}

// PlatformFor maps a target identifier onto its platform family.
func PlatformFor(target string) Platform {
	if strings.HasPrefix(strings.ToLower(target), "win") {
		return PlatformWindows
	}
	return PlatformUnix
}

// IsWindows reports whether the build targets Windows.
func (b *BuildConfig) IsWindows() bool { return b.Platform == PlatformWindows }

// LibraryDir is the source application's library directory.
func (b *BuildConfig) LibraryDir() string { return filepath.Join(b.App, "lib") }

// RuntimeLibDir is the library directory inside the runtime output.
func (b *BuildConfig) RuntimeLibDir() string { return filepath.Join(b.RuntimeDir, "lib") }

// ModulePath is the JDK module image directory handed to jlink.
func (b *BuildConfig) ModulePath() string { return filepath.Join(b.JDK, "jmods") + string(filepath.Separator) }

// Archives reports whether this build ends with an archive step.
func (b *BuildConfig) Archives() bool { return !b.Legacy }

// ArchiveName is <Product>-<version>-<target>.zip.
func (b *BuildConfig) ArchiveName() string {
	return b.Product + "-" + b.Version + "-" + b.Target + ".zip"
}

// ArchivePath is the archive location inside the build root.
func (b *BuildConfig) ArchivePath() string { return filepath.Join(b.BuildRoot, b.ArchiveName()) }

// ManifestPath sits next to the archive.
func (b *BuildConfig) ManifestPath() string {
	if b.Legacy {
		return filepath.Join(filepath.Dir(filepath.Clean(b.RuntimeDir)), filepath.Base(b.RuntimeDir)+".manifest.json")
	}
	return filepath.Join(b.BuildRoot, strings.TrimSuffix(b.ArchiveName(), ".zip")+".manifest.json")
}

// RuntimeMarkerPath is the completion marker of the runtime link stage. It
// lives beside the runtime directory so it never ends up in the archive.
func (b *BuildConfig) RuntimeMarkerPath() string {
	dir := filepath.Clean(b.RuntimeDir)
	return filepath.Join(filepath.Dir(dir), "."+filepath.Base(dir)+".runtime.json")
}

func copyWindows(w WindowsConfig) WindowsConfig {
	out := WindowsConfig{RulesScript: w.RulesScript}
	out.FirewallRules = append([]FirewallRule(nil), w.FirewallRules...)
	out.DisabledServices = append([]string(nil), w.DisabledServices...)
	return out
}
