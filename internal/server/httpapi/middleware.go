package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/server/auth"
)

type contextKey int

const principalKey contextKey = iota

// PrincipalFromContext returns the verified principal the auth middleware
// attached to the request.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}

// authMiddleware verifies the Bearer token and stores the principal in the
// request context. Everything behind it can assume an authenticated caller.
func authMiddleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, common.ErrUnauthorized)
				return
			}

			p, err := auth.VerifyToken(token, secretKey)
			if err != nil {
				writeError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
		})
	}
}
