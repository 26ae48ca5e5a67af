// Package bootstrap handles application initialization and lifecycle management
// for the duplicate-as service.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
)

// Options are the command-line settings passed to Start.
type Options struct {
	ConfigPath string
	Debug      bool
	Version    string
}

// Start initializes and runs the duplicate-as service until ctx is done or
// the process is signalled.
func Start(ctx context.Context, opts Options) error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Start profiling server (if enabled)
	if pprofServer := profiling.StartPprofServer(cfg.Profiling, log); pprofServer != nil {
		defer func() { _ = pprofServer.Close() }()
	}

	// Phase 3: Setup database
	db, err := SetupDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	// Phase 4: Metrics and tracing
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tel := telemetry.NewProvider(reg)

	// Phase 5: Setup event publisher (optional)
	redisClient, publisher := SetupEventPublisher(ctx, cfg, tel, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Phase 6: Setup and run HTTP server
	server, err := SetupHTTPServer(cfg, db, redisClient, publisher, tel, log)
	if err != nil {
		return fmt.Errorf("failed to set up server: %w", err)
	}

	log.Info("Starting HTTP server", infralogger.Int("port", cfg.Service.Port))

	if runErr := server.RunWithGracefulShutdown(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
