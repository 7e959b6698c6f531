// Package app wires configuration, the record store, the mediator and the
// HTTP API together. Both binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tasktree/internal/api"
	"tasktree/internal/config"
	"tasktree/internal/db"
	"tasktree/pkg/ident"
	"tasktree/pkg/mediator"
	"tasktree/pkg/record"
	"tasktree/pkg/tree"
)

// App holds the running pieces.
type App struct {
	Config   *config.Config
	Remote   record.Store
	Mediator *mediator.Mediator
	Registry *prometheus.Registry

	close func()
}

// New opens the record store and builds an empty mediator around it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	remote, closeFn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sink := mediator.MultiSink{
		mediator.LogSink{Verbose: cfg.VerboseWrites},
		mediator.NewPromSink(reg),
	}
	m := mediator.New(tree.NewStore(ident.UUID{}, tree.State{}), remote, mediator.Options{
		UserID:       cfg.UserID,
		WriteTimeout: cfg.WriteTimeout,
		Sink:         sink,
	})

	return &App{
		Config:   cfg,
		Remote:   remote,
		Mediator: m,
		Registry: reg,
		close:    closeFn,
	}, nil
}

// Start ensures the tables exist and loads the tree. A failed load is logged
// and the app continues with an empty tree.
func (a *App) Start(ctx context.Context) error {
	if err := a.Remote.EnsureTables(ctx); err != nil {
		return fmt.Errorf("ensure tables: %w", err)
	}
	if err := a.Mediator.Load(ctx); err != nil {
		log.Printf("app: starting with an empty tree: %v", err)
	}
	return nil
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return api.New(a.Mediator, promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.Config.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.serve(ctx, ln)
}

// serve runs the API on ln. Request contexts derive from ctx, so long-lived
// state streams end as soon as ctx is cancelled and do not hold up Shutdown.
func (a *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("tasktree listening on %s (%s backend)", ln.Addr(), a.Config.Backend)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Println("tasktree: shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Close waits for in-flight remote writes and releases the record store.
func (a *App) Close() {
	a.Mediator.Wait()
	a.close()
}
