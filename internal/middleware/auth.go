package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/relayhub/relayhub/internal/auth"
	"github.com/relayhub/relayhub/internal/metrics"
	"github.com/relayhub/relayhub/internal/model"
)

// TokenResolver resolves an API key token to its owning user.
// A nil user means no key matched. *repository.Repository satisfies it.
type TokenResolver interface {
	GetUserByToken(ctx context.Context, token string) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Store  TokenResolver
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header, resolves it
// to an active user by exact key match, and injects the caller's identity
// into the request context. Requests that fail never reach the handler.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearer(r.Header.Get("Authorization"))
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_credential"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				metrics.AuthFailures.WithLabelValues("missing_credential").Inc()
				writeAuthFail(w, "missing API key")
				return
			}

			user, err := cfg.Store.GetUserByToken(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("store error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthUnavailable(w)
				return
			}

			if user == nil || !user.Active {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_credential"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				metrics.AuthFailures.WithLabelValues("invalid_credential").Inc()
				// Same body for unknown and inactive: no enumeration.
				writeAuthFail(w, "invalid API key")
				return
			}

			identity := &auth.Identity{
				UserID:   user.ID,
				Username: user.Username,
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthFail writes a 401 client-fault envelope.
func writeAuthFail(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"status":"fail","data":{"authorization":"` + msg + `"}}`))
}

// writeAuthUnavailable writes a 500 server-fault envelope with no internal detail.
func writeAuthUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"status":"error","message":"service unavailable"}`))
}
