package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/task"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/database"
)

type taskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.Repository {
	return &taskRepository{db: db}
}

const taskColumns = `t.id, t.title, t.description, t.assigned_to, t.assigned_by, t.shift_date,
	   t.status, t.completed_at, t.created_at, t.updated_at`

func scanTaskWithUsers(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.AssignedBy, &t.ShiftDate,
		&t.Status, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		&t.AssigneeName, &t.AssignerName,
	)
	return t, err
}

// Create implements task.Repository.
func (r *taskRepository) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (title, description, assigned_to, assigned_by, shift_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.AssignedTo,
		t.AssignedBy,
		t.ShiftDate,
		t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// GetByID implements task.Repository.
func (r *taskRepository) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `,
		       assignee.name AS assignee_name,
		       assigner.name AS assigner_name
		FROM tasks t
		LEFT JOIN users assignee ON assignee.id = t.assigned_to
		LEFT JOIN users assigner ON assigner.id = t.assigned_by
		WHERE t.id = $1
	`

	found, err := scanTaskWithUsers(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task by ID: %w", err)
	}

	return found, nil
}

// List implements task.Repository.
func (r *taskRepository) List(ctx context.Context, filter task.ListFilter) ([]task.Task, int64, error) {
	q := GetQuerier(ctx, r.db)

	conds := []string{"1=1"}
	var args []interface{}
	argIdx := 1

	if filter.AssignedTo != nil && *filter.AssignedTo != "" {
		conds = append(conds, fmt.Sprintf("t.assigned_to = $%d", argIdx))
		args = append(args, *filter.AssignedTo)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conds = append(conds, fmt.Sprintf("t.status = $%d", argIdx))
		args = append(args, strings.ToUpper(*filter.Status))
		argIdx++
	}
	if filter.ShiftDate != nil && *filter.ShiftDate != "" {
		conds = append(conds, fmt.Sprintf("t.shift_date = $%d", argIdx))
		args = append(args, *filter.ShiftDate)
		argIdx++
	}

	where := strings.Join(conds, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT `+taskColumns+`,
		       assignee.name AS assignee_name,
		       assigner.name AS assigner_name
		FROM tasks t
		LEFT JOIN users assignee ON assignee.id = t.assigned_to
		LEFT JOIN users assigner ON assigner.id = t.assigned_by
		WHERE `+where+`
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTaskWithUsers(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, total, rows.Err()
}

// Update implements task.Repository.
func (r *taskRepository) Update(ctx context.Context, t task.Task) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, t.Title, t.Description, t.Status, t.CompletedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}

	return nil
}

// Delete implements task.Repository.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}

	return nil
}

// CountIncomplete implements task.Repository.
func (r *taskRepository) CountIncomplete(ctx context.Context, userID string, shiftDate time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE assigned_to = $1 AND shift_date = $2 AND status <> $3
	`, userID, shiftDate, task.StatusCompleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count incomplete tasks: %w", err)
	}

	return count, nil
}
