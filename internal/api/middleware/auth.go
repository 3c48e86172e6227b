package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/souravdas/ragchat/internal/api/response"
	"github.com/souravdas/ragchat/internal/repository/redis"
	"github.com/souravdas/ragchat/internal/security"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator validates request credentials. Variants: basic (configured
// username/password) and bearer (signed JWT). One is selected by config.
type Authenticator interface {
	Authenticate(next http.Handler) http.Handler
}

// GetIdentity returns the authenticated caller identity from context
func GetIdentity(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	return id, ok
}

// BasicAuthMiddleware handles HTTP basic authentication
type BasicAuthMiddleware struct {
	verifier *security.BasicVerifier
}

// NewBasicAuthMiddleware creates a new basic-auth middleware
func NewBasicAuthMiddleware(verifier *security.BasicVerifier) *BasicAuthMiddleware {
	return &BasicAuthMiddleware{verifier: verifier}
}

// Authenticate validates the basic-auth credentials. The failure message
// never echoes the expected credentials.
func (m *BasicAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="ragchat"`)
			response.Unauthorized(w, "missing credentials")
			return
		}

		if !m.verifier.Verify(username, password) {
			response.Unauthorized(w, "incorrect username or password")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerAuthMiddleware handles JWT bearer authentication
type BearerAuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewBearerAuthMiddleware creates a new bearer-token middleware
func NewBearerAuthMiddleware(jwtManager *security.JWTManager) *BearerAuthMiddleware {
	return &BearerAuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the JWT token
func (m *BearerAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting per authenticated identity
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), identity)
		if err != nil {
			// If the rate limiter fails, allow the request rather than block traffic
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
