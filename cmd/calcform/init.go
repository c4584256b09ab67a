package main

import (
	"context"

	"calcform/internal/calculator"
	"calcform/internal/config"
	"calcform/internal/observability"
	"calcform/internal/store"
)

func noopShutdown(context.Context) error { return nil }

// initTelemetry starts the OTLP providers when enabled and registers the
// calculator's metric instruments against whichever meter provider is global.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	shutdown := noopShutdown

	if cfg.Telemetry.Enabled {
		var err error
		shutdown, err = observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			return nil, err
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.OpenSQLite(cfg.Database.Path, observability.Logger)
}
