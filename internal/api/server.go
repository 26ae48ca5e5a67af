package api

import (
	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/config"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/handler"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
)

// HealthCheck is a named dependency check reported by /health.
type HealthCheck struct {
	Name    string
	Checker infragin.HealthChecker
}

// NewServer creates the HTTP server.
func NewServer(
	h *handler.Handler,
	cfg *config.Config,
	tel *telemetry.Provider,
	log infralogger.Logger,
	checks ...HealthCheck,
) *infragin.Server {
	b := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins)

	for _, check := range checks {
		b = b.WithHealthCheck(check.Name, check.Checker)
	}

	return b.WithRoutes(func(router *gin.Engine) {
		SetupRoutes(router, h, cfg.Auth.JWTSecret, tel)
	}).Build()
}
