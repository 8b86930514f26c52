package response

import (
	"errors"
	"net/http"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/department"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A rejected upload file tells the client which rule failed
	var rejection *upload.Rejection
	if errors.As(err, &rejection) {
		BadRequest(w, rejection.Message, map[string]string{"rule": string(rejection.Rule)})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrNoPrincipal):
		Unauthorized(w, "Invalid or missing token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrStaffAccessRequired):
		Forbidden(w, "Staff access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrDepartmentRequired):
		Forbidden(w, "Your account is not assigned to a department")

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrBookingNotFound):
		NotFound(w, "Booking not found")
	case errors.Is(err, shift.ErrShiftNotPublished):
		Conflict(w, "Shift is not open for booking")
	case errors.Is(err, shift.ErrShiftInPast):
		Conflict(w, "Shift date has already passed")
	case errors.Is(err, shift.ErrNoSlotsAvailable):
		Conflict(w, "No slots available for this shift")
	case errors.Is(err, shift.ErrAlreadyBooked):
		Conflict(w, "You already hold a booking on this shift")
	case errors.Is(err, shift.ErrBookingAlreadyReviewed):
		Conflict(w, "Booking already reviewed")
	case errors.Is(err, shift.ErrInvalidMonth):
		BadRequest(w, "Invalid month, expected YYYY-MM", nil)

	// Shift request domain errors
	case errors.Is(err, shiftrequest.ErrShiftRequestNotFound):
		NotFound(w, "Shift request not found")
	case errors.Is(err, shiftrequest.ErrShiftRequestAlreadyProcessed):
		Conflict(w, "Shift request already processed")
	case errors.Is(err, shiftrequest.ErrShiftRequestNotOwned):
		Forbidden(w, "Shift request belongs to another user")

	// Upload domain errors
	case errors.Is(err, upload.ErrSessionNotFound):
		NotFound(w, "Upload session not found")
	case errors.Is(err, upload.ErrDraftNotFound):
		NotFound(w, "Draft row not found")
	case errors.Is(err, upload.ErrIllegalTransition):
		Conflict(w, "Upload step not allowed in the current state")
	case errors.Is(err, upload.ErrUnreadableFile):
		BadRequest(w, "The uploaded file could not be read, please select another file", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
