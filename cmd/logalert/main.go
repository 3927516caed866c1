package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"logalert/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The config (and its logging block) is loaded per command; errors that
	// escape a command are reported on a plain console logger.
	log := logx.NewConsole("info").With(logx.String("comp", "main"))
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error("fatal", logx.Err(err))
		cancel()
		os.Exit(1)
	}
}
