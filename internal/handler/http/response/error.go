package response

import (
	"errors"
	"net/http"

	"github.com/tempohq/tempo-backend-go/internal/domain/auth"
	"github.com/tempohq/tempo-backend-go/internal/domain/company"
	"github.com/tempohq/tempo-backend-go/internal/domain/project"
	"github.com/tempohq/tempo-backend-go/internal/domain/task"
	"github.com/tempohq/tempo-backend-go/internal/domain/timesheet"
	"github.com/tempohq/tempo-backend-go/internal/domain/user"
	"github.com/tempohq/tempo-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Validation and
// not-found errors are expected caller-facing outcomes; anything
// unrecognized is a storage-layer failure and surfaces as a generic 500
// without leaking internals.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, auth.ErrOAuthDisabled):
		BadRequest(w, "Google login is not configured", nil)

	// User / company domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, "Owner access required")
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")

	// Project / task domain errors
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")

	// Default: storage failure
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
