package attendance

import "context"

// Service defines attendance business logic.
type Service interface {
	// CheckIn opens the caller's shift record. The shift date is resolved
	// from the current instant and the caller's effective schedule; the
	// check-in status (EARLY, ON_TIME, LATE) is classified against the
	// scheduled start, honoring any check-in override for that date.
	CheckIn(ctx context.Context, userID string, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the caller's open session. Fails when location is
	// missing or when incomplete tasks remain for the shift.
	CheckOut(ctx context.Context, userID string, req CheckOutRequest) (AttendanceResponse, error)

	// Status reports the caller's current shift window and whether a
	// check-in or check-out is currently possible
	Status(ctx context.Context, userID string) (StatusResponse, error)

	// History lists the caller's own records, newest first
	History(ctx context.Context, userID string, filter HistoryFilter) (ListResponse, error)

	// List lists records across users with admin filters
	List(ctx context.Context, filter Filter) (ListResponse, error)

	// Get retrieves one record by ID
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// Update lets an admin correct punches or the status
	Update(ctx context.Context, req UpdateRequest) (AttendanceResponse, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error
}
