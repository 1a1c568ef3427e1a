package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/auth"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrOrganizationClaimMissing):
		Forbidden(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrOrganizationRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, report.ErrReportGenerationFailed):
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
