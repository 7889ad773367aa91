package task

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusCompleted TaskStatus = "COMPLETED"
)

// Task is a unit of work assigned to an employee for a shift date.
// Open tasks for the shift block the employee's check-out.
type Task struct {
	ID          string
	Title       string
	Description *string

	AssignedTo string
	AssignedBy string
	ShiftDate  time.Time // stored as a DATE

	Status      TaskStatus
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / join
	AssigneeName *string
	AssignerName *string
}
