package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/auth"
	"github.com/matchup-gg/matchup/internal/httpx"
)

type principalKey struct{}

var errMissingToken = apperr.New(apperr.Unauthenticated, "AUTHENTICATION_REQUIRED", "missing bearer token")

// RequireAuth verifies the Authorization bearer token and stores the
// principal in the request context.
func RequireAuth(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httpx.WriteError(w, errMissingToken)
				return
			}
			p, err := auth.ParseToken(token, secret)
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the authenticated principal, or nil outside
// RequireAuth.
func PrincipalFrom(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(principalKey{}).(*auth.Principal)
	return p
}
