package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/wwscc/distbuilder/internal/config"
	"github.com/wwscc/distbuilder/internal/linker"
)

// Global carries process-wide state into every command.
type Global struct {
	Ctx context.Context
	Out io.Writer

	// Linker overrides the jlink binary; nil uses the default.
	Linker linker.Linker
}

func (g *Global) context() context.Context {
	if g == nil || g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path (default: distbuilder.yaml when present)" placeholder:"PATH"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build   BuildCmd   `cmd:"" help:"Build a distribution (runtime image, libraries, launchers, archive)"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Status  StatusCmd  `cmd:"" help:"Show the runtime image and archive state of a target"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever application libraries or the configuration change"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := parseLogLevel(c.Verbose)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel returns debug for --verbose, otherwise DISTBUILDER_LOG_LEVEL
// when it names a level, otherwise info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DISTBUILDER_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// configPath returns the file to load and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return config.DefaultConfigFile, false
}

// loadConfig loads the configuration file, falling back to defaults when the
// implicit default file is absent.
func (c *CLI) loadConfig() (*config.Config, error) {
	path, explicit := c.configPath()
	return config.LoadOrDefault(path, explicit)
}
