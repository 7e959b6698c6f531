package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tasktree/internal/app"
	"tasktree/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("TASKTREE_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	if err := run(ctx, a); err != nil {
		log.Printf("server: %v", err)
		os.Exit(1)
	}
}

// run owns a from here on: a is always closed, so pending remote writes
// finish before the process exits.
func run(ctx context.Context, a *app.App) error {
	defer a.Close()
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return a.Serve(ctx)
}
