package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/wwscc/distbuilder/cmd/distbuilder/commands"
	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("distbuilder"),
		kong.Description("Assemble runnable Scorekeeper distributions: runtime image, libraries, launchers, archive."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Ctx: ctx, Out: os.Stdout}, cli)
	stop()
	if err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
