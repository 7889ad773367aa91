package laterequest

import "time"

// RequestStatus is the lifecycle state of a late request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// LateRequest is an employee's ask to move their check-in time for one
// shift date. Approval writes a check-in override for that date.
type LateRequest struct {
	ID        string
	UserID    string
	ShiftDate time.Time // stored as a DATE

	RequestedTime string // HH:mm
	Reason        string

	Status RequestStatus

	// DecisionToken authorizes the one-click approve/reject links sent
	// to admins by email
	DecisionToken string
	DecidedBy     *string
	DecidedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / join
	UserName  *string
	UserEmail *string
}
