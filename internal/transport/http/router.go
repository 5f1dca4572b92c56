package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/verify-api/internal/application/verification"
	"github.com/verify-api/internal/config"
	jwtinfra "github.com/verify-api/internal/infrastructure/jwt"
	"github.com/verify-api/internal/transport/http/handler"
	appmiddleware "github.com/verify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds what the router needs from the rest of the application.
type Deps struct {
	Service     verification.Service
	JWTProvider *jwtinfra.Provider // nil disables proof tokens
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Both verification endpoints are public and brute-forceable, so they
	// sit behind the per-IP limiter.
	rl := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	healthH := handler.NewHealthHandler()
	verH := handler.NewVerificationHandler(deps.Service, deps.JWTProvider)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(rl.Limit).Post("/verifications/request", verH.Request)
		r.With(rl.Limit).Post("/verifications/confirm", verH.Confirm)
	})

	return r
}
