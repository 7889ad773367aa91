package laterequest

import "errors"

// Late request domain errors
var (
	ErrRequestNotFound   = errors.New("late request not found")
	ErrRequestDecided    = errors.New("late request has already been decided")
	ErrDuplicateRequest  = errors.New("a pending request already exists for this shift date")
	ErrInvalidToken      = errors.New("invalid decision token")
)
