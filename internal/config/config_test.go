package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "DATABASE_PATH", "LOG_LEVEL", "OTEL_ENABLED", "OTEL_SERVICE_NAME"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calcform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, `
http:
  addr: ":9090"
  shutdown_timeout: 10s
database:
  path: /var/lib/calcform/calc.db
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "/var/lib/calcform/calc.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "calcform", cfg.Telemetry.ServiceName, "unset keys keep their defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "http:\n  addr: \":9090\"\n")

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "calc-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "calc-test", cfg.Telemetry.ServiceName)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeFile(t, "http: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "SHUTDOWN_TIMEOUT")
	})

	t.Run("bad bool", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OTEL_ENABLED", "maybe")
		_, err := Load("")
		assert.ErrorContains(t, err, "OTEL_ENABLED")
	})

	t.Run("bad level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "loud")
		_, err := Load("")
		assert.ErrorContains(t, err, "log.level")
	})
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "http.addr")
	assert.ErrorContains(t, err, "database.path")
	assert.ErrorContains(t, err, "telemetry.service_name")
}
