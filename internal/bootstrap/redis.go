package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/config"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/events"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
)

// SetupEventPublisher creates an optional event publisher if Redis is enabled.
// Returns nils if Redis is disabled or unavailable.
func SetupEventPublisher(
	ctx context.Context,
	cfg *config.Config,
	tel *telemetry.Provider,
	log infralogger.Logger,
) (*redis.Client, *events.Publisher) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	redisClient, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled",
			infralogger.Error(err),
		)
		return nil, nil
	}

	log.Info("Event publisher initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
	)
	return redisClient, events.NewPublisher(redisClient, log, tel.MetricsOrNil())
}
