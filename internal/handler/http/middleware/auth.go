package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/auth"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired runs after jwtauth.Verifier and only lets verified access
// tokens through.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			slog.DebugContext(r.Context(), "Rejected request token", "path", r.URL.Path, "error", err)
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != "access" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
