// Package profiling exposes net/http/pprof on a loopback-only listener.
package profiling

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
)

// Config enables the pprof listener.
type Config struct {
	Enabled bool   `env:"ENABLE_PROFILING" yaml:"enabled"`
	Port    string `env:"PPROF_PORT"       yaml:"port"`
}

// StartPprofServer serves /debug/pprof/ on localhost:<port> in the background
// when profiling is enabled. It returns nil when disabled.
func StartPprofServer(cfg Config, log logger.Logger) *http.Server {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Port == "" {
		cfg.Port = "6060"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{
		Addr:              "localhost:" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server stopped", logger.Error(err))
		}
	}()
	return srv
}
