// Package app wires configuration, logging, caching and metrics into the
// servers shared by the command line binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/njchilds90/symexpr/internal/cache"
	"github.com/njchilds90/symexpr/internal/config"
	"github.com/njchilds90/symexpr/internal/httpapi"
	"github.com/njchilds90/symexpr/internal/mcpserver"
	"github.com/njchilds90/symexpr/internal/metrics"
	"github.com/njchilds90/symexpr/internal/toolsvc"
)

const redisPingTimeout = 3 * time.Second

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Service  *toolsvc.Service

	closers []func() error
}

// New builds the tool service described by cfg. Close releases the cache
// connection.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store, err := a.newStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Service, err = toolsvc.New(cfg.Numeric,
		toolsvc.WithCache(store),
		toolsvc.WithMetrics(metrics.New(a.Registry)),
		toolsvc.WithLogger(logger),
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) newStore(ctx context.Context) (cache.Store, error) {
	c := a.Config.Cache
	switch c.Backend {
	case "none":
		return cache.Nop{}, nil
	case "memory":
		return cache.NewMemory(c.Size, c.TTL), nil
	case "redis":
		store := cache.NewRedis(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			cache.WithTTL(c.TTL),
			cache.WithPrefix(c.Redis.Prefix),
		)
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis cache at %s: %w", c.Redis.Addr, err)
		}
		a.closers = append(a.closers, store.Close)
		a.Logger.Info("using redis cache", "address", c.Redis.Addr, "db", c.Redis.DB)
		return store, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
}

// Close releases resources held by the App.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// ServeHTTP runs the HTTP API on addr until ctx is cancelled.
func (a *App) ServeHTTP(ctx context.Context, addr string) error {
	h := httpapi.NewHandler(a.Service,
		httpapi.WithGatherer(a.Registry),
		httpapi.WithLogger(a.Logger),
	)
	return httpapi.ListenAndServe(ctx, addr, h, a.Logger)
}

// ServeMCP runs the MCP server over the given transport ("stdio" or "sse").
func (a *App) ServeMCP(ctx context.Context, transport string, port int) error {
	srv := mcpserver.NewServer(a.Service, a.Logger)
	switch transport {
	case "stdio":
		a.Logger.Info("starting MCP server (stdio)", "numeric", a.Config.Numeric)
		return srv.ServeStdio()
	case "sse":
		a.Logger.Info("starting MCP server (SSE)", "numeric", a.Config.Numeric, "port", port)
		return srv.ServeSSE(ctx, port)
	}
	return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
}
