// SPDX-License-Identifier: MIT

package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/magiavventure/go-common/internal/config"
	"github.com/magiavventure/go-common/internal/telemetry"
	"github.com/magiavventure/go-common/pkg/catalog"
	"github.com/magiavventure/go-common/pkg/log"
	"github.com/magiavventure/go-common/pkg/middleware"
	"github.com/magiavventure/go-common/pkg/responder"
)

//go:embed errors.yaml
var serviceErrors []byte

// buildCatalog folds the library defaults, the service's own entries and the
// configured files, in that order, and fails when a reserved key is missing.
func buildCatalog(files []string) (*catalog.Catalog, error) {
	own, err := catalog.ParseYAML("commonsvc", serviceErrors)
	if err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	extra, err := catalog.LoadAll(files...)
	if err != nil {
		return nil, err
	}

	sources := append([]catalog.Source{catalog.Defaults(), own}, extra...)
	cat := catalog.Build(sources...)
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid error catalog: %w", err)
	}
	return cat, nil
}

// newHandler assembles the full HTTP handler for cfg.
func newHandler(cfg config.AppConfig, rs *responder.Responder, store *categoryStore) http.Handler {
	stack := middleware.StackConfig{
		Responder:     rs,
		EnableAudit:   cfg.Audit.Enabled,
		Audit:         middleware.AuditConfig{MaxLoggedBody: cfg.Audit.MaxLoggedBody},
		EnableMetrics: cfg.Metrics.Enabled,
	}
	if cfg.Tracing.Enabled {
		stack.TracingService = cfg.Tracing.ServiceName
	}
	if cfg.RateLimit.Enabled {
		stack.EnableRateLimit = true
		stack.RateLimit = middleware.RateLimitConfig{
			RequestLimit: cfg.RateLimit.Requests,
			WindowSize:   cfg.RateLimit.Window,
		}
	}

	r := chi.NewRouter()
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// Probes and scrapes bypass the stack; everything else, unmatched
	// requests included, goes through it.
	r.Group(func(api chi.Router) {
		middleware.ApplyStack(api, stack)
		mountCategories(api, rs, store)
	})

	var h http.Handler = r
	if cfg.MaxBodyBytes > 0 {
		h = http.MaxBytesHandler(h, cfg.MaxBodyBytes)
	}
	if cfg.Tracing.Enabled {
		h = otelhttp.NewHandler(h, cfg.Tracing.ServiceName,
			otelhttp.WithFilter(shouldTrace),
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return operation + " " + r.Method + " " + r.URL.Path
			}),
		)
	}
	return h
}

// shouldTrace skips probe and scrape endpoints.
func shouldTrace(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics":
		return false
	}
	return true
}

// run serves until ctx is canceled, then shuts down gracefully.
func run(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("server")

	cat, err := buildCatalog(cfg.Catalog.Files)
	if err != nil {
		return err
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Tracing.Environment,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newHandler(cfg, responder.New(cat), newCategoryStore()),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str(log.FieldEvent, "server.listening").
			Str("addr", cfg.ListenAddr).
			Int("catalog_entries", cat.Len()).
			Strs("catalog_sources", cat.Sources()).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Str(log.FieldEvent, "server.shutdown").Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), tp.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
