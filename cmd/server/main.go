package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcncl/scriptkit/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.RunServer(ctx, cli.WiringChi, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
