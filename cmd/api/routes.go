// AngelaMos | 2026
// routes.go

package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carterperez-dev/subtracker/internal/auth"
	"github.com/carterperez-dev/subtracker/internal/config"
	"github.com/carterperez-dev/subtracker/internal/core"
	"github.com/carterperez-dev/subtracker/internal/health"
	"github.com/carterperez-dev/subtracker/internal/middleware"
	"github.com/carterperez-dev/subtracker/internal/subscription"
	"github.com/carterperez-dev/subtracker/internal/user"
)

type routes struct {
	logger        *slog.Logger
	config        *config.Config
	metrics       *core.Metrics
	tokens        *auth.JWTManager
	users         middleware.UserResolver
	authHandler   *auth.Handler
	userHandler   *user.Handler
	subHandler    *subscription.Handler
	healthHandler *health.Handler
	globalLimiter func(http.Handler) http.Handler
	authLimiter   func(http.Handler) http.Handler
}

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// mountRoutes installs the middleware chain and every endpoint. Limiters
// may be nil.
func mountRoutes(router chi.Router, rt routes) {
	cfg := rt.config

	router.Use(chimw.StripSlashes)
	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(rt.logger))
	if cfg.Metrics.Enabled && rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	if rt.globalLimiter != nil {
		router.Use(rt.globalLimiter)
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.MaxBodySize(cfg.Server.MaxBodyBytes))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		core.OK(w, rootResponse{
			Message: "Welcome to the " + cfg.App.Name,
			Version: cfg.App.Version,
		})
	})

	rt.healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled && rt.metrics != nil {
		router.Handle(cfg.Metrics.Path, rt.metrics.Handler())
	}

	if rt.tokens.JWKSEnabled() {
		router.Get("/.well-known/jwks.json", rt.tokens.GetJWKSHandler())
	}

	protect := chi.Chain(
		middleware.Authenticator(rt.tokens),
		middleware.RequireUser(rt.users),
	).Handler

	rt.authHandler.RegisterRoutes(router, rt.authLimiter)
	rt.userHandler.RegisterRoutes(router, protect)
	rt.subHandler.RegisterRoutes(router, protect)
}
