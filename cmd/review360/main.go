package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"review360/internal/cli"
)

// Version information, set by the build.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersionInfo(Version, Commit)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
