package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/actiontoken"
	infragin "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/actions"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/api"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/config"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/database"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/duplicator"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/events"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/handler"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/hooks"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

const healthCheckTimeout = 2 * time.Second

// SetupHTTPServer wires storage, validation, duplication and the handlers
// into the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *sqlx.DB,
	redisClient *redis.Client,
	publisher *events.Publisher,
	tel *telemetry.Provider,
	log infralogger.Logger,
) (*infragin.Server, error) {
	types, err := registry.New(cfg.ContentTypes)
	if err != nil {
		return nil, fmt.Errorf("content types: %w", err)
	}

	translator, err := i18n.New()
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}

	repo := database.NewRepository(db)
	authz := auth.NewCapabilityAuthorizer(types)
	signer := actiontoken.NewSigner(cfg.Auth.ActionSecret, cfg.Auth.ActionTokenTTL)

	h := hooks.New()
	if publisher != nil {
		h.OnAfterDuplicate(publisher.AfterDuplicate)
	}

	dup := duplicator.New(duplicator.Config{
		Store:        repo,
		Types:        types,
		Hooks:        h,
		ExcludedKeys: cfg.Duplication.ExcludedAttributeKeys,
		Telemetry:    tel,
		Logger:       log,
	})

	hdl := handler.New(handler.Config{
		Validator:  validator.New(repo, types, authz),
		Duplicator: dup,
		Records:    repo,
		Actions:    actions.NewBuilder(types, authz, signer, cfg.Duplication.AdminBaseURL),
		Signer:     signer,
		Translator: translator,
		EditLink:   cfg.Duplication.EditLink,
		Metrics:    tel.Metrics,
		Logger:     log,
	})

	checks := []api.HealthCheck{{
		Name:    "database",
		Checker: infragin.DatabaseHealthChecker(pingWithTimeout(repo.Ping)),
	}}
	if redisClient != nil {
		checks = append(checks, api.HealthCheck{
			Name: "redis",
			Checker: infragin.RedisHealthChecker(pingWithTimeout(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})),
		})
	}

	log.Info("Content types registered", infralogger.Int("count", len(types.Types())))
	return api.NewServer(hdl, cfg, tel, log, checks...), nil
}

func pingWithTimeout(ping func(context.Context) error) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		defer cancel()
		return ping(ctx)
	}
}
