package task

import (
	"context"
	"time"
)

// Repository defines data access methods for tasks.
type Repository interface {
	// Create creates a new task
	Create(ctx context.Context, t Task) (Task, error)

	// GetByID retrieves a task with its users joined
	GetByID(ctx context.Context, id string) (Task, error)

	// List retrieves tasks matching the filter with pagination,
	// newest first
	List(ctx context.Context, filter ListFilter) ([]Task, int64, error)

	// Update updates an existing task
	Update(ctx context.Context, t Task) error

	// Delete removes a task
	Delete(ctx context.Context, id string) error

	// CountIncomplete counts the user's open tasks for one shift date.
	// The check-out gate refuses to close the shift while this is
	// non-zero.
	CountIncomplete(ctx context.Context, userID string, shiftDate time.Time) (int64, error)
}
