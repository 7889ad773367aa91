package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/override"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/database"
)

type overrideRepository struct {
	db *database.DB
}

func NewOverrideRepository(db *database.DB) override.Repository {
	return &overrideRepository{db: db}
}

const overrideColumns = `id, user_id, shift_date, check_in_time, reason, created_by, created_at, updated_at`

func scanOverride(row pgx.Row) (override.Override, error) {
	var ov override.Override
	err := row.Scan(
		&ov.ID,
		&ov.UserID,
		&ov.ShiftDate,
		&ov.CheckInTime,
		&ov.Reason,
		&ov.CreatedBy,
		&ov.CreatedAt,
		&ov.UpdatedAt,
	)
	return ov, err
}

// Upsert implements override.Repository. The unique constraint on
// (user_id, shift_date) makes the last write win.
func (r *overrideRepository) Upsert(ctx context.Context, ov override.Override) (override.Override, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO check_in_overrides (user_id, shift_date, check_in_time, reason, created_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, shift_date) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
		    reason = EXCLUDED.reason,
		    created_by = EXCLUDED.created_by,
		    updated_at = NOW()
		RETURNING ` + overrideColumns

	saved, err := scanOverride(q.QueryRow(ctx, query,
		ov.UserID,
		ov.ShiftDate,
		ov.CheckInTime,
		ov.Reason,
		ov.CreatedBy,
	))
	if err != nil {
		return override.Override{}, fmt.Errorf("failed to upsert override: %w", err)
	}

	return saved, nil
}

// GetByUserAndShiftDate implements override.Repository.
func (r *overrideRepository) GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*override.Override, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overrideColumns + `
		FROM check_in_overrides
		WHERE user_id = $1 AND shift_date = $2
	`

	ov, err := scanOverride(q.QueryRow(ctx, query, userID, shiftDate))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No override for this shift
		}
		return nil, fmt.Errorf("failed to get override: %w", err)
	}

	return &ov, nil
}

// GetByID implements override.Repository.
func (r *overrideRepository) GetByID(ctx context.Context, id string) (override.Override, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overrideColumns + ` FROM check_in_overrides WHERE id = $1`

	ov, err := scanOverride(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return override.Override{}, override.ErrOverrideNotFound
		}
		return override.Override{}, fmt.Errorf("failed to get override by ID: %w", err)
	}

	return ov, nil
}

// List implements override.Repository.
func (r *overrideRepository) List(ctx context.Context, filter override.ListFilter) ([]override.Override, error) {
	q := GetQuerier(ctx, r.db)

	conds := []string{"1=1"}
	var args []interface{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		conds = append(conds, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conds = append(conds, fmt.Sprintf("shift_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conds = append(conds, fmt.Sprintf("shift_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	query := `
		SELECT ` + overrideColumns + `
		FROM check_in_overrides
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY shift_date DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	var overrides []override.Override
	for rows.Next() {
		ov, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides = append(overrides, ov)
	}

	return overrides, rows.Err()
}

// Delete implements override.Repository.
func (r *overrideRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM check_in_overrides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return override.ErrOverrideNotFound
	}

	return nil
}
