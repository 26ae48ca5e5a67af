package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/config"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/database"
)

// SetupDatabase connects to PostgreSQL, retrying while it starts up.
func SetupDatabase(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*sqlx.DB, error) {
	dbCfg := database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	var db *sqlx.DB
	err := retry.Do(ctx, retry.Config{
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Warn("Database not ready, retrying",
				infralogger.Int("attempt", attempt),
				infralogger.Duration("wait", wait),
				infralogger.Error(err),
			)
		},
	}, func(ctx context.Context) error {
		conn, connErr := database.NewPostgresConnection(ctx, dbCfg)
		if connErr != nil {
			return connErr
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	log.Info("Connected to database",
		infralogger.String("host", cfg.Database.Host),
		infralogger.String("database", cfg.Database.Database),
	)
	return db, nil
}
