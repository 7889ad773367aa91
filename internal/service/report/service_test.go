package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/report"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
)

func ptr[T any](v T) *T { return &v }

type fakeAttendanceRepo struct {
	records      []attendance.Attendance
	statusCounts map[shift.Status]int64
	userCounts   map[string]map[shift.Status]int64
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, userID string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrNotCheckedIn
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error { return nil }
func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error                 { return nil }

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) ListForExport(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	return f.records, nil
}

func (f *fakeAttendanceRepo) CountByStatus(ctx context.Context, filter attendance.Filter) (map[shift.Status]int64, error) {
	return f.statusCounts, nil
}

func (f *fakeAttendanceRepo) StatusCountsByUser(ctx context.Context) (map[string]map[shift.Status]int64, error) {
	return f.userCounts, nil
}

func (f *fakeAttendanceRepo) ListSince(ctx context.Context, from time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if !r.ShiftDate.Before(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListOpenSessions(ctx context.Context) ([]attendance.Attendance, error) {
	return nil, errors.New("not implemented")
}

type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) { return f.users, nil }

func (f *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error   { return nil }

type fakeGeocoder struct {
	label string
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	return f.label
}

func TestStats_SumsCounts(t *testing.T) {
	attRepo := &fakeAttendanceRepo{statusCounts: map[shift.Status]int64{
		shift.StatusEarly:      1,
		shift.StatusOnTime:     5,
		shift.StatusLate:       2,
		shift.StatusAbsent:     1,
		shift.StatusNoCheckout: 1,
	}}
	svc := NewReportService(attRepo, &fakeUserRepo{}, &fakeGeocoder{})

	stats, err := svc.Stats(context.Background(), attendance.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(8), stats.Present)
	assert.Equal(t, int64(5), stats.OnTime)
	assert.Equal(t, int64(2), stats.Late)
}

func TestAnalytics_TrendAndRedFlags(t *testing.T) {
	day1 := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	attRepo := &fakeAttendanceRepo{
		records: []attendance.Attendance{
			{UserID: "u1", ShiftDate: day1, Status: shift.StatusOnTime},
			{UserID: "u2", ShiftDate: day1, Status: shift.StatusLate},
			{UserID: "u1", ShiftDate: day2, Status: shift.StatusLate},
			{UserID: "u2", ShiftDate: day2, Status: shift.StatusAbsent},
		},
		userCounts: map[string]map[shift.Status]int64{
			"u1": {shift.StatusOnTime: 8, shift.StatusLate: 1},
			"u2": {shift.StatusOnTime: 3, shift.StatusLate: 4, shift.StatusAbsent: 3},
		},
	}
	userRepo := &fakeUserRepo{users: []user.User{
		{ID: "u1", Name: "Steady", Email: "steady@example.com"},
		{ID: "u2", Name: "Flaky", Email: "flaky@example.com"},
	}}
	svc := NewReportService(attRepo, userRepo, &fakeGeocoder{})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	result, err := svc.Analytics(context.Background(), report.AnalyticsFilter{Days: 30})
	require.NoError(t, err)

	require.Len(t, result.Trend, 2)
	assert.Equal(t, "2026-03-08", result.Trend[0].ShiftDate)
	assert.Equal(t, int64(1), result.Trend[0].OnTime)
	assert.Equal(t, int64(1), result.Trend[0].Late)
	assert.Equal(t, "2026-03-09", result.Trend[1].ShiftDate)
	assert.Equal(t, int64(1), result.Trend[1].Absent)

	require.Len(t, result.Employees, 2)
	byID := map[string]report.EmployeeStatsEntry{}
	for _, e := range result.Employees {
		byID[e.UserID] = e
	}
	assert.False(t, byID["u1"].Stats.IsRedFlag)
	assert.True(t, byID["u2"].Stats.IsRedFlag)
}

func TestAnalytics_WindowExcludesOldRecords(t *testing.T) {
	attRepo := &fakeAttendanceRepo{
		records: []attendance.Attendance{
			{UserID: "u1", ShiftDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Status: shift.StatusOnTime},
			{UserID: "u1", ShiftDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Status: shift.StatusOnTime},
		},
	}
	svc := NewReportService(attRepo, &fakeUserRepo{}, &fakeGeocoder{})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	result, err := svc.Analytics(context.Background(), report.AnalyticsFilter{Days: 7})
	require.NoError(t, err)
	require.Len(t, result.Trend, 1)
	assert.Equal(t, "2026-03-09", result.Trend[0].ShiftDate)
}

func TestExportCSV(t *testing.T) {
	checkIn := time.Date(2026, 3, 9, 16, 5, 0, 0, time.UTC)
	attRepo := &fakeAttendanceRepo{records: []attendance.Attendance{
		{
			UserID:           "u1",
			UserName:         ptr("Night Owl"),
			UserEmail:        ptr("owl@example.com"),
			ShiftDate:        time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			CheckInAt:        &checkIn,
			CheckInLatitude:  ptr(24.8607),
			CheckInLongitude: ptr(67.0011),
			Status:           shift.StatusOnTime,
		},
	}}
	svc := NewReportService(attRepo, &fakeUserRepo{}, &fakeGeocoder{})

	data, err := svc.ExportCSV(context.Background(), attendance.Filter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Employee,Email,Shift Date,Status,Check In,Check In Location,Check Out,Check Out Location", lines[0])
	assert.Contains(t, lines[1], "Night Owl")
	assert.Contains(t, lines[1], "2026-03-09")
	// Geocoder returned nothing, coordinates are the fallback label
	assert.Contains(t, lines[1], "24.860700")
}
