package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/task"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
)

type TaskServiceImpl struct {
	taskRepo task.Repository
	userRepo user.Repository
}

func NewTaskService(taskRepo task.Repository, userRepo user.Repository) task.Service {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// Create implements task.Service.
func (s *TaskServiceImpl) Create(ctx context.Context, req task.CreateRequest) (task.TaskResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, req.AssignedTo); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return task.TaskResponse{}, task.ErrAssigneeNotFound
		}
		return task.TaskResponse{}, err
	}

	key, err := shift.ParseKey(req.ShiftDate)
	if err != nil {
		return task.TaskResponse{}, err
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  req.AssignedBy,
		ShiftDate:   key.Date(time.UTC),
		Status:      task.StatusPending,
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	return toResponse(created), nil
}

// List implements task.Service.
func (s *TaskServiceImpl) List(ctx context.Context, filter task.ListFilter) (task.ListResponse, error) {
	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return task.ListResponse{}, err
	}

	response := task.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Tasks:      make([]task.TaskResponse, 0, len(tasks)),
	}
	if filter.Limit > 0 {
		response.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	for _, t := range tasks {
		response.Tasks = append(response.Tasks, toResponse(t))
	}

	return response, nil
}

// Get implements task.Service.
func (s *TaskServiceImpl) Get(ctx context.Context, id string) (task.TaskResponse, error) {
	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return toResponse(t), nil
}

// Update implements task.Service. Admins and managers may edit
// anything; the assignee may only flip the status on their own task.
func (s *TaskServiceImpl) Update(ctx context.Context, actorID string, isAdmin bool, req task.UpdateRequest) (task.TaskResponse, error) {
	t, err := s.taskRepo.GetByID(ctx, req.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	if !isAdmin {
		if t.AssignedTo != actorID {
			return task.TaskResponse{}, task.ErrNotTaskAssignee
		}
		if req.Title != nil || req.Description != nil {
			return task.TaskResponse{}, task.ErrNotTaskAssignee
		}
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Status != nil {
		newStatus := task.TaskStatus(strings.ToUpper(*req.Status))
		if newStatus == task.StatusCompleted && t.Status != task.StatusCompleted {
			now := time.Now().UTC()
			t.CompletedAt = &now
		}
		if newStatus == task.StatusPending {
			t.CompletedAt = nil
		}
		t.Status = newStatus
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return task.TaskResponse{}, err
	}

	return toResponse(t), nil
}

// Delete implements task.Service.
func (s *TaskServiceImpl) Delete(ctx context.Context, id string) error {
	return s.taskRepo.Delete(ctx, id)
}

func toResponse(t task.Task) task.TaskResponse {
	resp := task.TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		AssignedTo:   t.AssignedTo,
		AssigneeName: t.AssigneeName,
		AssignedBy:   t.AssignedBy,
		AssignerName: t.AssignerName,
		ShiftDate:    t.ShiftDate.Format("2006-01-02"),
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
	}
	if t.CompletedAt != nil {
		v := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
