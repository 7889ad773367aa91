package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.shift_date, a.check_in_at, a.check_out_at,
	   a.check_in_latitude, a.check_in_longitude, a.check_out_latitude, a.check_out_longitude,
	   a.status, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.ShiftDate, &att.CheckInAt, &att.CheckOutAt,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.Status, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

func scanAttendanceWithUser(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.ShiftDate, &att.CheckInAt, &att.CheckOutAt,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.Status, &att.CreatedAt, &att.UpdatedAt,
		&att.UserName, &att.UserEmail,
	)
	return att, err
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, shift_date, check_in_at, check_out_at,
			check_in_latitude, check_in_longitude, check_out_latitude, check_out_longitude,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.ShiftDate,
		newAttendance.CheckInAt,
		newAttendance.CheckOutAt,
		newAttendance.CheckInLatitude,
		newAttendance.CheckInLongitude,
		newAttendance.CheckOutLatitude,
		newAttendance.CheckOutLongitude,
		newAttendance.Status,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `, u.name AS user_name, u.email AS user_email
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	att, err := scanAttendanceWithUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByUserAndShiftDate implements attendance.Repository.
func (a *attendanceRepository) GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1 AND a.shift_date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, shiftDate))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No existing record for this shift
		}
		return nil, fmt.Errorf("failed to get attendance by user and shift date: %w", err)
	}

	return &att, nil
}

// GetOpenSession implements attendance.Repository.
func (a *attendanceRepository) GetOpenSession(ctx context.Context, userID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1
		  AND a.check_in_at IS NOT NULL
		  AND a.check_out_at IS NULL
		  AND a.status NOT IN ($2, $3)
		ORDER BY a.check_in_at DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, shift.StatusAbsent, shift.StatusNoCheckout))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return att, nil
}

// Update implements attendance.Repository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_at = $1, check_out_at = $2,
		    check_in_latitude = $3, check_in_longitude = $4,
		    check_out_latitude = $5, check_out_longitude = $6,
		    status = $7, updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		att.CheckInAt,
		att.CheckOutAt,
		att.CheckInLatitude,
		att.CheckInLongitude,
		att.CheckOutLatitude,
		att.CheckOutLongitude,
		att.Status,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// Delete implements attendance.Repository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// buildFilterWhere translates the admin filter into a WHERE clause.
func buildFilterWhere(filter attendance.Filter) (string, []interface{}) {
	conds := []string{"1=1"}
	var args []interface{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		conds = append(conds, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conds = append(conds, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, strings.ToUpper(*filter.Status))
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conds = append(conds, fmt.Sprintf("a.shift_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conds = append(conds, fmt.Sprintf("a.shift_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	return strings.Join(conds, " AND "), args
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildFilterWhere(filter)

	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT `+attendanceColumns+`, u.name AS user_name, u.email AS user_email
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE `+where+`
		ORDER BY a.shift_date DESC, u.name ASC
		LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var atts []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendanceWithUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		atts = append(atts, att)
	}

	return atts, total, rows.Err()
}

// ListByUser implements attendance.Repository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	conds := []string{"a.user_id = $1"}
	args := []interface{}{userID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		conds = append(conds, fmt.Sprintf("a.shift_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conds = append(conds, fmt.Sprintf("a.shift_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	where := strings.Join(conds, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances a WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT `+attendanceColumns+`
		FROM attendances a
		WHERE `+where+`
		ORDER BY a.shift_date DESC
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances by user: %w", err)
	}
	defer rows.Close()

	var atts []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		atts = append(atts, att)
	}

	return atts, total, rows.Err()
}

// ListForExport implements attendance.Repository.
func (a *attendanceRepository) ListForExport(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildFilterWhere(filter)

	query := `
		SELECT ` + attendanceColumns + `, u.name AS user_name, u.email AS user_email
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE ` + where + `
		ORDER BY a.shift_date ASC, u.name ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances for export: %w", err)
	}
	defer rows.Close()

	var atts []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendanceWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		atts = append(atts, att)
	}

	return atts, rows.Err()
}

// CountByStatus implements attendance.Repository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, filter attendance.Filter) (map[shift.Status]int64, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildFilterWhere(filter)

	query := `
		SELECT a.status, COUNT(*)
		FROM attendances a
		WHERE ` + where + `
		GROUP BY a.status
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendances by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[shift.Status]int64)
	for rows.Next() {
		var status shift.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// StatusCountsByUser implements attendance.Repository.
func (a *attendanceRepository) StatusCountsByUser(ctx context.Context) (map[string]map[shift.Status]int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT a.user_id, a.status, COUNT(*)
		FROM attendances a
		GROUP BY a.user_id, a.status
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses by user: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]map[shift.Status]int64)
	for rows.Next() {
		var userID string
		var status shift.Status
		var count int64
		if err := rows.Scan(&userID, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan user status count: %w", err)
		}
		if counts[userID] == nil {
			counts[userID] = make(map[shift.Status]int64)
		}
		counts[userID][status] = count
	}

	return counts, rows.Err()
}

// ListSince implements attendance.Repository.
func (a *attendanceRepository) ListSince(ctx context.Context, from time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.shift_date >= $1
		ORDER BY a.shift_date ASC
	`

	rows, err := q.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances since date: %w", err)
	}
	defer rows.Close()

	var atts []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		atts = append(atts, att)
	}

	return atts, rows.Err()
}

// ListOpenSessions implements attendance.Repository.
func (a *attendanceRepository) ListOpenSessions(ctx context.Context) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.check_in_at IS NOT NULL
		  AND a.check_out_at IS NULL
		  AND a.status NOT IN ($1, $2)
		ORDER BY a.check_in_at ASC
	`

	rows, err := q.Query(ctx, query, shift.StatusAbsent, shift.StatusNoCheckout)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	var atts []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		atts = append(atts, att)
	}

	return atts, rows.Err()
}
