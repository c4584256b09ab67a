package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"calcform/internal/calculator"
	"calcform/internal/handlers"
	"calcform/internal/observability"
	"calcform/internal/store"
)

func NewRouter(repo store.Repository) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calculator.NewHandler(repo))

	return r
}
