package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relayhub/relayhub/internal/handler"
	"github.com/relayhub/relayhub/internal/middleware"
)

// RouterConfig collects everything the router mounts.
type RouterConfig struct {
	Base     *handler.Handler
	Health   *handler.HealthHandler
	Users    *handler.UserHandler
	Messages *handler.MessageHandler
	Auth     middleware.AuthConfig
	Logger   *slog.Logger

	// MaxBodySize limits request body size in bytes; 0 disables the limit.
	MaxBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
// Registration is the only open mutation; every other application route
// sits behind the auth gateway.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.MaxBodySize > 0 {
		r.Use(limitBody(cfg.MaxBodySize))
	}

	// Operational endpoints (no auth required)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Root info endpoint
	r.Get("/", cfg.Base.Hello)

	// Registration is open by design: it issues the credential.
	r.Post("/register", cfg.Users.Register)

	// Everything else requires a valid API key.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth))

		r.Get("/me", cfg.Users.Me)
		r.Get("/user_by_id/{id}", cfg.Users.GetByID)
		r.Get("/user_by_username/{username}", cfg.Users.GetByUsername)
		r.Delete("/delete_user_by_id/{id}", cfg.Users.DeleteByID)

		r.Post("/send_message", cfg.Messages.Send)
		r.Get("/read_message/{peerUsername}", cfg.Messages.Read)
	})

	// 404 and 405 handlers
	r.NotFound(cfg.Base.NotFound)
	r.MethodNotAllowed(cfg.Base.MethodNotAllowed)

	return r
}

// limitBody caps request body size.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
