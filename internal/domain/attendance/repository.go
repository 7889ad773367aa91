package attendance

import (
	"context"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
)

// Repository defines data access methods for attendance records.
type Repository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves an attendance record with its user joined
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndShiftDate retrieves the record for one shift occurrence.
	// Used to prevent double check-in; returns nil when none exists.
	GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*Attendance, error)

	// GetOpenSession retrieves the latest record with a check-in but no
	// check-out for the user
	GetOpenSession(ctx context.Context, userID string) (Attendance, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, att Attendance) error

	// Delete removes an attendance record
	Delete(ctx context.Context, id string) error

	// List retrieves records with admin filters and pagination
	List(ctx context.Context, filter Filter) ([]Attendance, int64, error)

	// ListByUser retrieves one user's records, newest first
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListForExport retrieves filtered records with users joined, oldest
	// page limits removed, for CSV generation
	ListForExport(ctx context.Context, filter Filter) ([]Attendance, error)

	// CountByStatus counts matching records per status
	CountByStatus(ctx context.Context, filter Filter) (map[shift.Status]int64, error)

	// StatusCountsByUser counts every user's records per status
	StatusCountsByUser(ctx context.Context) (map[string]map[shift.Status]int64, error)

	// ListSince retrieves records whose shift date falls on or after from
	ListSince(ctx context.Context, from time.Time) ([]Attendance, error)

	// ListOpenSessions retrieves every record with a check-in and no
	// check-out, for the no-checkout sweep
	ListOpenSessions(ctx context.Context) ([]Attendance, error)
}
