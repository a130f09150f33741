/*
middleware.go - Authentication and rate limiting

PURPOSE:
  Request-level protections for the API surface. The upstream contract is
  bearer-token authenticated, so the router mounts an HS256 JWT check when
  a secret is configured; deployments without one (local development,
  tests) run open. Rate limiting uses an in-memory token bucket keyed by
  client IP.

SEE ALSO:
  - server.go: Where these are mounted
  - config package: AUTH_SECRET, RATE_LIMIT
*/
package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Claims are the bearer-token claims the gateway issues.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// BearerAuth validates the Authorization header against the HS256 secret.
// An empty secret disables the check entirely.
func BearerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		key := []byte(secret)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
				return
			}

			parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil || !parsed.Valid {
				writeError(w, http.StatusUnauthorized, "Invalid bearer token", err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit builds an IP-keyed limiter middleware from a formatted rate
// such as "60-M". A malformed rate is a configuration bug, so it is fatal.
func RateLimit(formatted string) func(http.Handler) http.Handler {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Fatalf("Invalid rate limit %q: %v", formatted, err)
	}
	instance := limiter.New(memory.NewStore(), rate)
	return stdlib.NewMiddleware(instance).Handler
}
