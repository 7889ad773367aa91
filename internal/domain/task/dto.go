package task

import (
	"context"
	"strings"

	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	AssignedTo  string  `json:"assigned_to"`
	ShiftDate   string  `json:"shift_date"` // YYYY-MM-DD

	AssignedBy string `json:"-"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if validator.IsEmpty(r.AssignedTo) {
		errs = append(errs, validator.ValidationError{
			Field:   "assigned_to",
			Message: "assigned_to is required",
		})
	}

	if _, valid := validator.IsValidDate(r.ShiftDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_date",
			Message: "shift_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	ID          string  `json:"-"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not be empty",
		})
	}

	if r.Status != nil {
		statuses := []string{string(StatusPending), string(StatusCompleted)}
		if !validator.IsInSlice(strings.ToUpper(*r.Status), statuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, COMPLETED",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListFilter struct {
	AssignedTo *string `json:"assigned_to,omitempty"`
	Status     *string `json:"status,omitempty"`
	ShiftDate  *string `json:"shift_date,omitempty"` // YYYY-MM-DD

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
		statuses := []string{string(StatusPending), string(StatusCompleted)}
		if !validator.IsInSlice(strings.ToUpper(*f.Status), statuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, COMPLETED",
			})
		}
	}

	if f.ShiftDate != nil && *f.ShiftDate != "" {
		if _, valid := validator.IsValidDate(*f.ShiftDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "shift_date",
				Message: "shift_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TaskResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	AssignedTo   string  `json:"assigned_to"`
	AssigneeName *string `json:"assignee_name,omitempty"`
	AssignedBy   string  `json:"assigned_by"`
	AssignerName *string `json:"assigner_name,omitempty"`
	ShiftDate    string  `json:"shift_date"`
	Status       string  `json:"status"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ListResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Tasks      []TaskResponse `json:"tasks"`
}

// Service defines task business logic.
type Service interface {
	// Create assigns a task to an employee for a shift date
	Create(ctx context.Context, req CreateRequest) (TaskResponse, error)

	// List retrieves tasks matching the filter
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Get retrieves one task by ID
	Get(ctx context.Context, id string) (TaskResponse, error)

	// Update edits a task; assignees may only flip the status
	Update(ctx context.Context, actorID string, isAdmin bool, req UpdateRequest) (TaskResponse, error)

	// Delete removes a task
	Delete(ctx context.Context, id string) error
}
