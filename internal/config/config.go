// Package config loads runtime settings: built-in defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Path is a SQLite file, or ":memory:".
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// TelemetryConfig controls the OTLP exporters. When disabled the OTel globals
// stay no-op and only stdout logging and /metrics remain.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "calculator.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "calcform",
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		c.HTTP.ShutdownTimeout = d
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTEL_ENABLED: %w", err)
		}
		c.Telemetry.Enabled = enabled
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Telemetry.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name must not be empty"))
	}

	return errors.Join(errs...)
}
