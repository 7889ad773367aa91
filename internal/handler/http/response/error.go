package response

import (
	"errors"
	"net/http"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/auth"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/laterequest"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/override"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/task"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
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
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrOAuthStateMismatch):
		Unauthorized(w, "OAuth state mismatch")
	case errors.Is(err, auth.ErrOAuthEmailUnknown):
		Forbidden(w, "No account exists for this Google email")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, "You cannot delete your own account", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this shift")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No active shift found to check out from", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out")
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location access is required to check out", nil)
	case errors.Is(err, attendance.ErrIncompleteTasks):
		BadRequest(w, "Complete your assigned tasks before checking out", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Override domain errors
	case errors.Is(err, override.ErrOverrideNotFound):
		NotFound(w, "Override not found")

	// Late request domain errors
	case errors.Is(err, laterequest.ErrRequestNotFound):
		NotFound(w, "Late request not found")
	case errors.Is(err, laterequest.ErrRequestDecided):
		Conflict(w, "Late request has already been decided")
	case errors.Is(err, laterequest.ErrDuplicateRequest):
		Conflict(w, "A pending request already exists for this shift date")
	case errors.Is(err, laterequest.ErrInvalidToken):
		Forbidden(w, "Invalid decision token")

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrTaskAlreadyDone):
		Conflict(w, "Task is already completed")
	case errors.Is(err, task.ErrNotTaskAssignee):
		Forbidden(w, "Only the assignee can update this task")
	case errors.Is(err, task.ErrAssigneeNotFound):
		NotFound(w, "Assignee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
