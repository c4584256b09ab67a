package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calcform/internal/config"
	"calcform/internal/observability"
	"calcform/internal/server"
)

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	// Logger
	if err := observability.InitLogger(cfg.Log.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, OTLP logs
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer telemetryShutdown(context.Background())

	// Store
	repo, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	// Router
	router := server.NewRouter(repo)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	errc := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("database", repo.Path()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	return waitForShutdown(ctx, srv, cfg, errc)
}

func waitForShutdown(ctx context.Context, srv *http.Server, cfg *config.Config, errc <-chan error) error {

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	observability.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
