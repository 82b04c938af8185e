package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/wwscc/distbuilder/internal/config"
	"github.com/wwscc/distbuilder/internal/linker"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct {
	Target    string `help:"Target platform name"`
	Version   string `help:"Distribution version"`
	Dest      string `help:"Runtime output directory (legacy layout)" type:"path"`
	JDK       string `name:"jdk" help:"JDK path; selects the platform in the legacy layout" type:"path"`
	BuildRoot string `name:"build-root" help:"Build output root" type:"path"`
}

func (s *StatusCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	bc, err := config.ResolveLayout(config.Options{
		Target:    s.Target,
		Version:   s.Version,
		Dest:      s.Dest,
		JDK:       s.JDK,
		BuildRoot: s.BuildRoot,
	}, cfg)
	if err != nil {
		return err
	}

	st, err := linker.ReadStatus(bc)
	if err != nil {
		return err
	}

	out := g.out()
	fmt.Fprintf(out, "target:   %s (%s)\n", bc.Target, bc.Platform)
	fmt.Fprintf(out, "runtime:  %s (%s)\n", st.RuntimeDir, presence(st.Present))
	switch {
	case st.Complete:
		fmt.Fprintf(out, "linked:   %s modules=%s\n", st.Marker.LinkedAt.Format(time.RFC3339), st.Marker.Modules)
	case st.Present:
		fmt.Fprintln(out, "linked:   unknown (no completion marker)")
	default:
		fmt.Fprintln(out, "linked:   no")
	}

	if !bc.Archives() {
		fmt.Fprintln(out, "archive:  none (legacy layout)")
		return nil
	}
	info, err := os.Stat(bc.ArchivePath())
	switch {
	case err == nil:
		fmt.Fprintf(out, "archive:  %s (%d bytes, %s)\n", bc.ArchivePath(), info.Size(), info.ModTime().Format(time.RFC3339))
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(out, "archive:  %s (missing)\n", bc.ArchivePath())
	default:
		return fmt.Errorf("stat archive: %w", err)
	}
	return nil
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
