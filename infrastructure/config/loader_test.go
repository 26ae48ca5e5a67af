package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/config"
)

type sample struct {
	Name    string        `env:"SAMPLE_NAME"    yaml:"name"`
	Port    int           `env:"SAMPLE_PORT"    yaml:"port"`
	Enabled bool          `env:"SAMPLE_ENABLED" yaml:"enabled"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	Keys    []string      `env:"SAMPLE_KEYS"    yaml:"keys"`
	Nested  struct {
		Secret string `env:"SAMPLE_SECRET" yaml:"secret"`
	} `yaml:"nested"`
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_PORT", "9090")
	t.Setenv("SAMPLE_ENABLED", "yes")
	t.Setenv("SAMPLE_TIMEOUT", "3s")
	t.Setenv("SAMPLE_KEYS", "a, b,,c")
	t.Setenv("SAMPLE_SECRET", "s3cret")

	path := writeFile(t, "name: from-yaml\nport: 8080\n")

	cfg, err := config.Load[sample](path, false)
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Keys)
	assert.Equal(t, "s3cret", cfg.Nested.Secret)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := filepath.Join(t.TempDir(), "nope.yml")

	_, err := config.Load[sample](path, false)
	require.Error(t, err)

	cfg, err := config.Load[sample](path, true)
	require.NoError(t, err)
	assert.Empty(t, cfg.Name)
}

func TestLoadWithDefaults_EnvWins(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_NAME", "from-env")
	path := writeFile(t, "{}\n")

	cfg, err := config.LoadWithDefaults(path, false, func(s *sample) {
		s.Name = "default"
		s.Port = 1234
	})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 1234, cfg.Port)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("SAMPLE_NAME_FROM_FILE=x\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() { _ = os.Unsetenv("SAMPLE_NAME_FROM_FILE") })

	_, err := config.Load[sample](filepath.Join(dir, "absent.yml"), true)
	require.NoError(t, err)
	assert.Equal(t, "x", os.Getenv("SAMPLE_NAME_FROM_FILE"))
}

func TestValidators(t *testing.T) {
	t.Parallel()

	var vErr *config.ValidationError
	require.True(t, errors.As(config.ValidatePort("server.port", 0), &vErr))
	assert.Equal(t, "server.port", vErr.Field)
	require.NoError(t, config.ValidatePort("server.port", 8080))
	require.Error(t, config.ValidateRequired("auth.jwt_secret", "  "))
	require.Error(t, config.ValidateLogLevel("logging.level", "loud"))
	require.NoError(t, config.ValidateOneOf("logging.format", "json", "json", "console"))
	require.Error(t, config.ValidateOneOf("logging.format", "xml", "json", "console"))
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(config.ConfigPathEnv, "")
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))
	t.Setenv(config.ConfigPathEnv, "/etc/duplicate-as.yml")
	assert.Equal(t, "/etc/duplicate-as.yml", config.GetConfigPath("config.yml"))
}
