package override

import (
	"context"

	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
)

type UpsertRequest struct {
	UserID      string  `json:"user_id"`
	ShiftDate   string  `json:"shift_date"` // YYYY-MM-DD
	CheckInTime string  `json:"check_in_time"`
	Reason      *string `json:"reason,omitempty"`

	CreatedBy *string `json:"-"`
}

func (r *UpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.ShiftDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_date",
			Message: "shift_date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidTimeOfDay(r.CheckInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must be in HH:mm format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OverrideResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	ShiftDate   string  `json:"shift_date"`
	CheckInTime string  `json:"check_in_time"`
	Reason      *string `json:"reason,omitempty"`
	CreatedBy   *string `json:"created_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Service defines override business logic.
type Service interface {
	// Upsert creates or replaces the override for (user, shift date).
	// The last write wins.
	Upsert(ctx context.Context, req UpsertRequest) (OverrideResponse, error)

	// Get retrieves the override for one user and shift date
	Get(ctx context.Context, userID, shiftDate string) (OverrideResponse, error)

	// List retrieves overrides matching the filter
	List(ctx context.Context, filter ListFilter) ([]OverrideResponse, error)

	// Delete removes an override
	Delete(ctx context.Context, id string) error
}
