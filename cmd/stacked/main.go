package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/carpenike/stacked/internal/cli"
	"github.com/carpenike/stacked/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var root cli.CLI
	kctx := kong.Parse(&root,
		kong.Name("stacked"),
		kong.Description("Workout log with supersets, unit conversion and backups"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	cfg, err := config.Load(root.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := cfg.Log.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Context{
		Ctx:     ctx,
		Config:  cfg,
		Log:     log,
		Out:     os.Stdout,
		In:      os.Stdin,
		Version: version,
	}
	if err := kctx.Run(app); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
