package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/swaggerdoc/cmd/swaggerdoc/commands"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("swaggerdoc"),
		kong.Description("Build documentation sites with embedded Swagger UI viewers."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(&cli),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := parser.Run()
	cancel()
	if err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
