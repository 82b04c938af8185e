package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Target string `help:"Only show builds of this target"`
	Limit  int    `short:"n" help:"Maximum number of builds to list" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return derrors.ValidationFailed("history.path", "build history is not enabled in the configuration")
	}
	if h.Limit <= 0 {
		return derrors.ValidationFailed("limit", "must be positive")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return derrors.FileSystemError("open build history", cfg.History.Path, err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(g.context(), h.Target, h.Limit)
	if err != nil {
		return derrors.InternalError("read build history", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(g.out(), "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTARGET\tVERSION\tOUTCOME\tDURATION\tARCHIVE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Target, e.Version, e.Outcome,
			e.Duration.Truncate(time.Millisecond), orDash(e.Archive))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
