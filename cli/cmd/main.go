// Command pain turns images into per-pixel digest streams and recovers
// them by exhaustive search. Run without arguments it shows an
// interactive menu; see "pain --help" for the subcommands.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/byte4ever/pain/cli"
	"github.com/byte4ever/pain/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.SetDefault(logging.New(os.Stderr, slog.LevelInfo))

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	app := &cli.App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	return app.Run(ctx, os.Args[1:])
}
