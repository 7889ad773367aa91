package task

import "errors"

// Task domain errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskAlreadyDone    = errors.New("task is already completed")
	ErrNotTaskAssignee    = errors.New("only the assignee can complete this task")
	ErrAssigneeNotFound   = errors.New("assignee not found")
)
