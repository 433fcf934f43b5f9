// SPDX-License-Identifier: MIT

// commonsvc is a reference HTTP server wiring the go-common packages
// together: error catalog, responder, correlation, audit, metrics, tracing
// and rate limiting in front of a small in-memory category API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/magiavventure/go-common/internal/config"
	"github.com/magiavventure/go-common/pkg/log"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
	})
	logger := log.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "server.failed").Msg("server exited with error")
		os.Exit(1)
	}
	logger.Info().Str(log.FieldEvent, "server.stopped").Msg("server stopped")
}
