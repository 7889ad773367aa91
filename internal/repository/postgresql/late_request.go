package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/laterequest"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/database"
)

type lateRequestRepository struct {
	db *database.DB
}

func NewLateRequestRepository(db *database.DB) laterequest.Repository {
	return &lateRequestRepository{db: db}
}

const lateRequestColumns = `lr.id, lr.user_id, lr.shift_date, lr.requested_time, lr.reason,
	   lr.status, lr.decision_token, lr.decided_by, lr.decided_at, lr.created_at, lr.updated_at`

func scanLateRequest(row pgx.Row) (laterequest.LateRequest, error) {
	var lr laterequest.LateRequest
	err := row.Scan(
		&lr.ID, &lr.UserID, &lr.ShiftDate, &lr.RequestedTime, &lr.Reason,
		&lr.Status, &lr.DecisionToken, &lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}

// Create implements laterequest.Repository.
func (r *lateRequestRepository) Create(ctx context.Context, lr laterequest.LateRequest) (laterequest.LateRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO late_requests (user_id, shift_date, requested_time, reason, status, decision_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lr.UserID,
		lr.ShiftDate,
		lr.RequestedTime,
		lr.Reason,
		lr.Status,
		lr.DecisionToken,
	).Scan(&lr.ID, &lr.CreatedAt, &lr.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return laterequest.LateRequest{}, laterequest.ErrDuplicateRequest
		}
		return laterequest.LateRequest{}, fmt.Errorf("failed to create late request: %w", err)
	}

	return lr, nil
}

// GetByID implements laterequest.Repository.
func (r *lateRequestRepository) GetByID(ctx context.Context, id string) (laterequest.LateRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + lateRequestColumns + `, u.name AS user_name, u.email AS user_email
		FROM late_requests lr
		LEFT JOIN users u ON u.id = lr.user_id
		WHERE lr.id = $1
	`

	var lr laterequest.LateRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&lr.ID, &lr.UserID, &lr.ShiftDate, &lr.RequestedTime, &lr.Reason,
		&lr.Status, &lr.DecisionToken, &lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.UserName, &lr.UserEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return laterequest.LateRequest{}, laterequest.ErrRequestNotFound
		}
		return laterequest.LateRequest{}, fmt.Errorf("failed to get late request by ID: %w", err)
	}

	return lr, nil
}

// GetPendingByUserAndShiftDate implements laterequest.Repository.
func (r *lateRequestRepository) GetPendingByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*laterequest.LateRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + lateRequestColumns + `
		FROM late_requests lr
		WHERE lr.user_id = $1 AND lr.shift_date = $2 AND lr.status = $3
		LIMIT 1
	`

	lr, err := scanLateRequest(q.QueryRow(ctx, query, userID, shiftDate, laterequest.StatusPending))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No pending request for this shift
		}
		return nil, fmt.Errorf("failed to get pending late request: %w", err)
	}

	return &lr, nil
}

// List implements laterequest.Repository.
func (r *lateRequestRepository) List(ctx context.Context, filter laterequest.ListFilter) ([]laterequest.LateRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conds := []string{"1=1"}
	var args []interface{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		conds = append(conds, fmt.Sprintf("lr.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conds = append(conds, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, strings.ToUpper(*filter.Status))
		argIdx++
	}

	where := strings.Join(conds, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM late_requests lr WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count late requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT `+lateRequestColumns+`, u.name AS user_name, u.email AS user_email
		FROM late_requests lr
		LEFT JOIN users u ON u.id = lr.user_id
		WHERE `+where+`
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list late requests: %w", err)
	}
	defer rows.Close()

	var requests []laterequest.LateRequest
	for rows.Next() {
		var lr laterequest.LateRequest
		err := rows.Scan(
			&lr.ID, &lr.UserID, &lr.ShiftDate, &lr.RequestedTime, &lr.Reason,
			&lr.Status, &lr.DecisionToken, &lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt, &lr.UpdatedAt,
			&lr.UserName, &lr.UserEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan late request: %w", err)
		}
		requests = append(requests, lr)
	}

	return requests, total, rows.Err()
}

// Update implements laterequest.Repository.
func (r *lateRequestRepository) Update(ctx context.Context, lr laterequest.LateRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE late_requests
		SET status = $1, decided_by = $2, decided_at = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, lr.Status, lr.DecidedBy, lr.DecidedAt, lr.ID)
	if err != nil {
		return fmt.Errorf("failed to update late request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return laterequest.ErrRequestNotFound
	}

	return nil
}
