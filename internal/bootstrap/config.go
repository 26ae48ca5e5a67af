package bootstrap

import (
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/config"
)

// LoadConfig loads and validates configuration. Command-line options win
// over the file and the environment.
func LoadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.Path()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Debug {
		cfg.Service.Debug = true
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	if opts.Version != "" {
		cfg.Service.Version = opts.Version
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (infralogger.Logger, error) {
	log, err := infralogger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		infralogger.String("service", cfg.Service.Name),
		infralogger.String("version", cfg.Service.Version),
	), nil
}
