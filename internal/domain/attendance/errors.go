package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("already checked in for this shift")

	// Check-out errors
	ErrNotCheckedIn      = errors.New("no active shift found to check out from")
	ErrAlreadyCheckedOut = errors.New("already checked out")
	ErrLocationRequired  = errors.New("location access is required to check out")
	ErrIncompleteTasks   = errors.New("incomplete tasks remain for this shift")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
