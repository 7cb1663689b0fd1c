package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/kashvi-crm/pkg/auth"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/response"
)

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores
// the token subject in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(w, "Unauthorized")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			logger.WithCtx(r.Context()).Debug("auth: token rejected", "error", err)
			response.Unauthorized(w, "Invalid token")
			return
		}

		ctx := auth.WithSubject(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
