// Package main is the entry point for the taskscribe CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskscribe/internal/backend/httpapi"
	"taskscribe/internal/cli"
	"taskscribe/internal/commands"
	"taskscribe/internal/config"
	"taskscribe/internal/service"
	"taskscribe/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The HTTP client is built per dispatch; a missing credential is
	// reported before any command runs.
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		if !cfg.HasSession() {
			return nil, service.ErrUnauthorized
		}
		client, err := httpapi.New(ctx, cfg, session.NewTokenSource(cfg))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
