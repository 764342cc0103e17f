package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/cors"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/config"
	"fleet-rental-backend/internal/metrics"
	"fleet-rental-backend/internal/repository"
	"fleet-rental-backend/internal/security"
)

type contextKey string

const actorKey contextKey = "actor"

type AuthMiddleware struct {
	tokens security.TokenManager
	users  repository.UserRepository
}

func NewAuthMiddleware(tokens security.TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate validates the bearer token and loads the account from
// the database so a deactivated user is locked out immediately, not
// when the token expires.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid authorization format"})
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil || claims.Type != security.TokenTypeAccess {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "user not found"})
			return
		}
		if !user.IsActive {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "account suspended"})
			return
		}

		actor := authz.Actor{UserID: user.ID, Role: user.Role}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext extracts the authenticated actor. The zero Actor is
// returned for unauthenticated requests; its empty role holds no
// capabilities.
func ActorFromContext(ctx context.Context) authz.Actor {
	actor, _ := ctx.Value(actorKey).(authz.Actor)
	return actor
}

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(wrapped.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler
}
