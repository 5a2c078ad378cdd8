package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/drewfead/ts-archive/internal/root"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd, err := root.Root(ctx)
	if err != nil {
		stop()
		slog.Error("ts-archive: build command", "error", err)
		os.Exit(1)
	}

	err = rootCmd.Run(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("ts-archive: scrape archive", "args", os.Args[1:], "error", err)
		os.Exit(1)
	}
}
