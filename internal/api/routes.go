package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/amlich-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/lunar/today
//	GET    /api/v1/lunar/date/{date}
//	GET    /api/v1/lunar/range?start=&end=
//	GET    /api/v1/lunar/convert?day=&month=&year=&leap=
//	GET    /api/v1/calendar/{year}/{month}
//	GET    /api/v1/zodiac/{year}
//	GET    /api/v1/holidays/{date}
//	GET    /api/v1/observances
//	GET    /api/v1/observances/{id}
//	POST   /api/v1/observances        (API key)
//	DELETE /api/v1/observances/{id}   (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)
	if handlers.metrics != nil {
		r.Use(handlers.metrics.Middleware())
		r.Method(http.MethodGet, "/metrics", handlers.metrics.Handler())
	}

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimitMiddleware(NewRateLimiter(cfg)))

		// ==========================================================================
		// Public routes
		// ==========================================================================
		r.Get("/lunar/today", handlers.GetToday)
		r.Get("/lunar/date/{date}", handlers.GetDate)
		r.Get("/lunar/range", handlers.GetRange)
		r.Get("/lunar/convert", handlers.ConvertLunar)
		r.Get("/calendar/{year}/{month}", handlers.GetMonth)
		r.Get("/zodiac/{year}", handlers.GetZodiac)
		r.Get("/holidays/{date}", handlers.GetHoliday)
		r.Get("/observances", handlers.ListObservances)
		r.Get("/observances/{id}", handlers.GetObservance)

		// ==========================================================================
		// Write routes (API key)
		// ==========================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Post("/observances", handlers.CreateObservance)
			r.Delete("/observances/{id}", handlers.DeleteObservance)
		})
	})

	return r
}
