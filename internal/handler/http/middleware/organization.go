package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/auth"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type organizationKey struct{}

// RequireOrganization rejects tokens without a UUID organization_id claim and
// stores the organization id on the request context.
func RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		raw, ok := claims["organization_id"].(string)
		if !ok || raw == "" {
			response.HandleError(w, auth.ErrOrganizationClaimMissing)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			response.HandleError(w, auth.ErrOrganizationClaimMissing)
			return
		}

		ctx := context.WithValue(r.Context(), organizationKey{}, id.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OrganizationID returns the organization id set by RequireOrganization
func OrganizationID(ctx context.Context) string {
	id, _ := ctx.Value(organizationKey{}).(string)
	return id
}
