package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/wwscc/distbuilder/internal/config"
	"github.com/wwscc/distbuilder/internal/logfields"
	"github.com/wwscc/distbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildFlags

	Debounce time.Duration `help:"Quiet period before a rebuild (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	opts := w.options()
	if err := opts.Validate(); err != nil {
		return err
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	bc, err := config.Resolve(opts, cfg)
	if err != nil {
		return err
	}

	outputs := BuildOutputs{MetricsFile: w.MetricsFile}
	if _, err := RunBuild(g, cfg, bc, outputs); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	rebuild := func(ctx context.Context, changed []string) error {
		// the config file may be among the changes; always start from a fresh load
		cfg, err := root.loadConfig()
		if err != nil {
			return err
		}
		bc, err := config.Resolve(opts, cfg)
		if err != nil {
			return err
		}
		slog.Info("Rebuilding distribution", logfields.Count(len(changed)), logfields.Target(bc.Target))
		report, err := RunBuild(&Global{Ctx: ctx, Out: g.out(), Linker: g.Linker}, cfg, bc, outputs)
		printBuildResult(g.out(), report)
		return err
	}

	debounce := cfg.Watch.Debounce
	if w.Debounce > 0 {
		debounce = w.Debounce
	}
	watcher, err := watch.New(debounce, rebuild)
	if err != nil {
		return err
	}
	if err := watcher.WatchDir(bc.LibraryDir()); err != nil {
		return err
	}
	if path, _ := root.configPath(); fileExists(path) {
		if err := watcher.WatchFile(path); err != nil {
			return err
		}
	}

	fmt.Fprintf(g.out(), "Watching %s (debounce %s), press Ctrl+C to stop\n", bc.LibraryDir(), debounce)
	return watcher.Run(g.context())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
