package laterequest

import (
	"context"
	"strings"

	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	UserID        string `json:"-"`
	ShiftDate     string `json:"shift_date"` // YYYY-MM-DD
	RequestedTime string `json:"requested_time"`
	Reason        string `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.ShiftDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_date",
			Message: "shift_date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidTimeOfDay(r.RequestedTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_time",
			Message: "requested_time must be in HH:mm format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Status *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 30
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		statuses := []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
		if !validator.IsInSlice(strings.ToUpper(*f.Status), statuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, APPROVED, REJECTED",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LateRequestResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	UserName      *string `json:"user_name,omitempty"`
	UserEmail     *string `json:"user_email,omitempty"`
	ShiftDate     string  `json:"shift_date"`
	RequestedTime string  `json:"requested_time"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	DecidedBy     *string `json:"decided_by,omitempty"`
	DecidedAt     *string `json:"decided_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type ListResponse struct {
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
	Requests   []LateRequestResponse `json:"requests"`
}

// Service defines late request business logic.
type Service interface {
	// Create submits a late request and emails every admin an
	// approve/reject link
	Create(ctx context.Context, req CreateRequest) (LateRequestResponse, error)

	// List retrieves requests matching the filter. Non-admin callers are
	// restricted to their own requests by the handler.
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Get retrieves one request by ID
	Get(ctx context.Context, id string) (LateRequestResponse, error)

	// Approve grants the request, upserts a check-in override for the
	// shift date and notifies the employee
	Approve(ctx context.Context, id, token, decidedBy string) (LateRequestResponse, error)

	// Reject denies the request and notifies the employee
	Reject(ctx context.Context, id, token, decidedBy string) (LateRequestResponse, error)
}
