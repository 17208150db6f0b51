package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campuseats/canteen/pkg/auth"
	"github.com/campuseats/canteen/pkg/response"
)

type claimsKey struct{}

// ClaimsFromCtx returns the authenticated user's claims, if any.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// Auth rejects requests without a valid Bearer token and stores the parsed
// claims in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(w)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only users whose token carries the admin role.
// Must be mounted after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if claims.Role != "admin" {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
