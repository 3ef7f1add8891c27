// Package main provides the entrypoint for gemini-proxy.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/isometry/gemini-proxy/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.New().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
