// Package config defines the duplicate-as service configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
)

// Default configuration values.
const (
	defaultServiceName    = "duplicate-as"
	defaultServicePort    = 8097
	defaultVersion        = "0.1.0"
	defaultDBHost         = "localhost"
	defaultDBPort         = 5432
	defaultDBName         = "duplicate_as"
	defaultDBUser         = "postgres"
	defaultDBSSLMode      = "disable"
	defaultMaxOpenConns   = 25
	defaultMaxIdleConns   = 5
	defaultConnLifetime   = 5 * time.Minute
	defaultRedisAddress   = "localhost:6379"
	defaultActionTokenTTL = 24 * time.Hour
	defaultEditURL        = "/admin/records/{id}/edit"
	defaultConfigPath     = "config.yml"

	// EditURLPlaceholder is replaced by the new record ID in Duplication.EditURL.
	EditURLPlaceholder = "{id}"
)

// Config holds the application configuration.
type Config struct {
	Service      ServiceConfig          `yaml:"service"`
	Database     DatabaseConfig         `yaml:"database"`
	Redis        RedisConfig            `yaml:"redis"`
	Auth         AuthConfig             `yaml:"auth"`
	Logging      infralogger.Config     `yaml:"logging"`
	Profiling    profiling.Config       `yaml:"profiling"`
	Duplication  DuplicationConfig      `yaml:"duplication"`
	ContentTypes []registry.Declaration `yaml:"content_types"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Port        int      `env:"DUPLICATE_AS_PORT"         yaml:"port"`
	Debug       bool     `env:"APP_DEBUG"                 yaml:"debug"`
	CORSOrigins []string `env:"DUPLICATE_AS_CORS_ORIGINS" yaml:"cors_origins"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_DUPLICATE_AS_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_DUPLICATE_AS_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_DUPLICATE_AS_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_DUPLICATE_AS_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DUPLICATE_AS_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_DUPLICATE_AS_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// MigrateURL returns the postgres:// URL used by golang-migrate.
func (d *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// RedisConfig holds Redis configuration. Events are only published when enabled.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
}

// AuthConfig holds the JWT and action-token secrets.
type AuthConfig struct {
	JWTSecret      string        `env:"AUTH_JWT_SECRET"            yaml:"jwt_secret"`
	ActionSecret   string        `env:"DUPLICATE_AS_ACTION_SECRET" yaml:"action_secret"`
	ActionTokenTTL time.Duration `yaml:"action_token_ttl"`
}

// DuplicationConfig holds duplication behaviour.
type DuplicationConfig struct {
	// EditURL is the editor location of a record; {id} is replaced by its ID.
	EditURL string `env:"DUPLICATE_AS_EDIT_URL"       yaml:"edit_url"`
	// AdminBaseURL prefixes row action links. Empty yields relative links.
	AdminBaseURL          string   `env:"DUPLICATE_AS_ADMIN_BASE_URL" yaml:"admin_base_url"`
	ExcludedAttributeKeys []string `yaml:"excluded_attribute_keys"`
}

// EditLink returns the editor URL of recordID.
func (d *DuplicationConfig) EditLink(recordID int64) string {
	return strings.ReplaceAll(d.EditURL, EditURLPlaceholder, fmt.Sprint(recordID))
}

// Path returns $CONFIG_PATH or config.yml.
func Path() string {
	return infraconfig.GetConfigPath(defaultConfigPath)
}

// Load loads configuration from path. A missing file is allowed so the
// service can run from environment variables alone.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, true, SetDefaults)
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRedisDefaults(&cfg.Redis)
	setAuthDefaults(&cfg.Auth)
	cfg.Logging.SetDefaults()
	if cfg.Service.Debug {
		cfg.Logging.Development = true
	}
	if cfg.Duplication.EditURL == "" {
		cfg.Duplication.EditURL = defaultEditURL
	}
	if len(cfg.ContentTypes) == 0 {
		cfg.ContentTypes = registry.DefaultDeclarations()
	}
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = defaultMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = defaultConnLifetime
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.Address == "" {
		r.Address = defaultRedisAddress
	}
}

func setAuthDefaults(a *AuthConfig) {
	if a.ActionTokenTTL == 0 {
		a.ActionTokenTTL = defaultActionTokenTTL
	}
	if a.ActionSecret == "" {
		a.ActionSecret = a.JWTSecret
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidatePort("database.port", c.Database.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("auth.jwt_secret", c.Auth.JWTSecret); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("auth.action_secret", c.Auth.ActionSecret); err != nil {
		return err
	}
	if c.Auth.ActionTokenTTL < 0 {
		return &infraconfig.ValidationError{Field: "auth.action_token_ttl", Message: "must not be negative"}
	}
	if err := infraconfig.ValidateLogLevel("logging.level", c.Logging.Level); err != nil {
		return err
	}
	if err := infraconfig.ValidateOneOf("logging.format", c.Logging.Format,
		infralogger.FormatJSON, infralogger.FormatConsole); err != nil {
		return err
	}
	if !strings.Contains(c.Duplication.EditURL, EditURLPlaceholder) {
		return &infraconfig.ValidationError{
			Field:   "duplication.edit_url",
			Message: "must contain " + EditURLPlaceholder,
		}
	}
	if c.Redis.Enabled {
		if err := infraconfig.ValidateRequired("redis.address", c.Redis.Address); err != nil {
			return err
		}
	}
	if _, err := registry.New(c.ContentTypes); err != nil {
		return &infraconfig.ValidationError{Field: "content_types", Message: err.Error()}
	}
	return nil
}
