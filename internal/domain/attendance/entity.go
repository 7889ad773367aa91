package attendance

import (
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
)

// Attendance is one employee's record for one shift day. At most one row
// exists per (UserID, ShiftDate); the storage layer enforces this with a
// unique constraint, the resolver engine only computes the key.
type Attendance struct {
	ID        string
	UserID    string
	ShiftDate time.Time // shift key, stored as a DATE

	CheckInAt  *time.Time // UTC
	CheckOutAt *time.Time // UTC

	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64

	Status shift.Status

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / join
	UserName  *string
	UserEmail *string
}

// Key returns the record's shift key.
func (a *Attendance) Key() shift.Key {
	return shift.Key{Year: a.ShiftDate.Year(), Month: a.ShiftDate.Month(), Day: a.ShiftDate.Day()}
}
