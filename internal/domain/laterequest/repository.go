package laterequest

import (
	"context"
	"time"
)

// Repository defines data access methods for late requests.
type Repository interface {
	// Create creates a new late request
	Create(ctx context.Context, lr LateRequest) (LateRequest, error)

	// GetByID retrieves a request with its user joined
	GetByID(ctx context.Context, id string) (LateRequest, error)

	// GetPendingByUserAndShiftDate retrieves the user's pending request
	// for one shift date; returns nil when none exists
	GetPendingByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*LateRequest, error)

	// List retrieves requests matching the filter with pagination,
	// newest first
	List(ctx context.Context, filter ListFilter) ([]LateRequest, int64, error)

	// Update updates a request's status and decision fields
	Update(ctx context.Context, lr LateRequest) error
}
