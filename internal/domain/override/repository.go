package override

import (
	"context"
	"time"
)

// Repository defines data access methods for check-in overrides.
type Repository interface {
	// Upsert inserts the override or replaces the existing row for the
	// same (user, shift date)
	Upsert(ctx context.Context, ov Override) (Override, error)

	// GetByUserAndShiftDate retrieves the override for one shift
	// occurrence; returns nil when none exists
	GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*Override, error)

	// GetByID retrieves an override by ID
	GetByID(ctx context.Context, id string) (Override, error)

	// List retrieves overrides matching the filter, newest shift first
	List(ctx context.Context, filter ListFilter) ([]Override, error)

	// Delete removes an override
	Delete(ctx context.Context, id string) error
}
