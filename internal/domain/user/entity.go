package user

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Full access, approves late requests
	RoleManager  Role = "MANAGER"  // Can assign tasks and view employees
	RoleEmployee Role = "EMPLOYEE" // Regular employee
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role

	// Per-user shift times ("HH:mm"); nil means the system default applies.
	CheckInTime  *string
	CheckOutTime *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin checks if the user has full administrative access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if the user is a manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// CanAssignTasks checks if the user may assign daily tasks
func (u *User) CanAssignTasks() bool {
	return u.IsManager()
}
