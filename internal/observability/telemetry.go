package observability

import (
	"context"
	"errors"
)

// InitTelemetry starts tracing, metrics and OTLP logging in that order and
// returns one shutdown func for all of them. If any step fails the providers
// already started are shut down.
func InitTelemetry(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, start := range []func(context.Context, string) (func(context.Context) error, error){
		InitTracing,
		InitMetrics,
		InitLogging,
	} {
		stop, err := start(ctx, serviceName)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdowns = append(shutdowns, stop)
	}

	return shutdown, nil
}
