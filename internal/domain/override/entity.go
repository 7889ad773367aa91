package override

import "time"

// Override replaces the scheduled check-in time for a single user on a
// single shift date. At most one row exists per (UserID, ShiftDate);
// writing again replaces the stored time.
type Override struct {
	ID        string
	UserID    string
	ShiftDate time.Time // stored as a DATE

	CheckInTime string // HH:mm, replaces the user's scheduled check-in
	Reason      *string
	CreatedBy   *string // admin who granted it, nil when system-generated

	CreatedAt time.Time
	UpdatedAt time.Time
}
