package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
)

var testDefaults = config.AttendanceConfig{
	DefaultTimezone:      "Asia/Karachi",
	DefaultCheckInTime:   "21:00",
	DefaultCheckOutTime:  "05:00",
	LateThresholdMinutes: 10,
}

func karachi(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)
	return loc
}

type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error   { return nil }

type fakeAttendanceRepo struct {
	records []attendance.Attendance
	nextID  int
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.UserID == att.UserID && r.ShiftDate.Equal(att.ShiftDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.nextID++
	att.ID = string(rune('a' + f.nextID))
	f.records = append(f.records, att)
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*attendance.Attendance, error) {
	for i := range f.records {
		r := f.records[i]
		if r.UserID == userID && r.ShiftDate.Format("2006-01-02") == shiftDate.Format("2006-01-02") {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, userID string) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.UserID == userID && r.CheckInAt != nil && r.CheckOutAt == nil {
			return r, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrNotCheckedIn
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	for i := range f.records {
		if f.records[i].ID == att.ID {
			f.records[i] = att
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) ListForExport(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) CountByStatus(ctx context.Context, filter attendance.Filter) (map[shift.Status]int64, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) StatusCountsByUser(ctx context.Context) (map[string]map[shift.Status]int64, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) ListSince(ctx context.Context, from time.Time) ([]attendance.Attendance, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAttendanceRepo) ListOpenSessions(ctx context.Context) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.CheckInAt != nil && r.CheckOutAt == nil && r.Status != shift.StatusAbsent && r.Status != shift.StatusNoCheckout {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestJobs(attRepo *fakeAttendanceRepo, userRepo *fakeUserRepo, now time.Time) *AttendanceJobs {
	jobs := NewAttendanceJobs(attRepo, userRepo, testDefaults)
	jobs.now = func() time.Time { return now }
	return jobs
}

func TestLastClosedKey_Overnight(t *testing.T) {
	loc := karachi(t)
	sched, err := shift.NewSchedule("21:00", "05:00", "Asia/Karachi")
	require.NoError(t, err)

	// 06:30, after the March 9 shift ended at 05:00
	now := time.Date(2026, 3, 10, 6, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-09", lastClosedKey(now, sched).String())

	// 03:00, still inside the March 9 shift; last closed one is March 8
	now = time.Date(2026, 3, 10, 3, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-08", lastClosedKey(now, sched).String())

	// 22:00, inside the March 10 shift
	now = time.Date(2026, 3, 10, 22, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-09", lastClosedKey(now, sched).String())
}

func TestLastClosedKey_SameDay(t *testing.T) {
	loc := karachi(t)
	sched, err := shift.NewSchedule("09:00", "17:00", "Asia/Karachi")
	require.NoError(t, err)

	// After today's shift ended
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-10", lastClosedKey(now, sched).String())

	// During today's shift
	now = time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-09", lastClosedKey(now, sched).String())
}

func TestMarkAbsentEmployees(t *testing.T) {
	loc := karachi(t)
	attRepo := &fakeAttendanceRepo{}
	userRepo := &fakeUserRepo{users: []user.User{
		{ID: "u1", Name: "Absent One", Role: user.RoleEmployee, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, loc)},
	}}

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)
	jobs := newTestJobs(attRepo, userRepo, now)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	require.Len(t, attRepo.records, 1)
	assert.Equal(t, "u1", attRepo.records[0].UserID)
	assert.Equal(t, shift.StatusAbsent, attRepo.records[0].Status)
	assert.Equal(t, "2026-03-09", attRepo.records[0].ShiftDate.Format("2006-01-02"))
	assert.Nil(t, attRepo.records[0].CheckInAt)

	// Second run finds the record and does nothing
	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	assert.Len(t, attRepo.records, 1)
}

func TestMarkAbsentEmployees_SkipsExistingRecord(t *testing.T) {
	loc := karachi(t)
	checkIn := time.Date(2026, 3, 9, 21, 5, 0, 0, loc)
	attRepo := &fakeAttendanceRepo{records: []attendance.Attendance{
		{
			ID:        "a1",
			UserID:    "u1",
			ShiftDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			CheckInAt: &checkIn,
			Status:    shift.StatusOnTime,
		},
	}}
	userRepo := &fakeUserRepo{users: []user.User{
		{ID: "u1", Role: user.RoleEmployee, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, loc)},
	}}

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)
	jobs := newTestJobs(attRepo, userRepo, now)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	assert.Len(t, attRepo.records, 1)
	assert.Equal(t, shift.StatusOnTime, attRepo.records[0].Status)
}

func TestMarkAbsentEmployees_SkipsNewHires(t *testing.T) {
	loc := karachi(t)
	attRepo := &fakeAttendanceRepo{}
	userRepo := &fakeUserRepo{users: []user.User{
		// Account created after the March 9 shift ended
		{ID: "u1", Role: user.RoleEmployee, CreatedAt: time.Date(2026, 3, 10, 7, 0, 0, 0, loc)},
	}}

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)
	jobs := newTestJobs(attRepo, userRepo, now)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	assert.Empty(t, attRepo.records)
}

func TestMarkAbsentEmployees_PerUserSchedule(t *testing.T) {
	loc := karachi(t)
	dayIn, dayOut := "09:00", "17:00"
	attRepo := &fakeAttendanceRepo{}
	userRepo := &fakeUserRepo{users: []user.User{
		{ID: "day", Role: user.RoleEmployee, CheckInTime: &dayIn, CheckOutTime: &dayOut, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, loc)},
	}}

	// 18:00: the day worker's March 10 shift has ended, the overnight
	// default would still point at March 9
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, loc)
	jobs := newTestJobs(attRepo, userRepo, now)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	require.Len(t, attRepo.records, 1)
	assert.Equal(t, "2026-03-10", attRepo.records[0].ShiftDate.Format("2006-01-02"))
}

func TestCloseNoCheckoutSessions(t *testing.T) {
	loc := karachi(t)
	staleCheckIn := time.Date(2026, 3, 8, 21, 0, 0, 0, loc)
	freshCheckIn := time.Date(2026, 3, 9, 21, 0, 0, 0, loc)
	attRepo := &fakeAttendanceRepo{records: []attendance.Attendance{
		{
			ID:        "stale",
			UserID:    "u1",
			ShiftDate: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			CheckInAt: &staleCheckIn,
			Status:    shift.StatusOnTime,
		},
		{
			ID:        "fresh",
			UserID:    "u1",
			ShiftDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			CheckInAt: &freshCheckIn,
			Status:    shift.StatusOnTime,
		},
	}}
	userRepo := &fakeUserRepo{users: []user.User{
		{ID: "u1", Role: user.RoleEmployee, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, loc)},
	}}

	// March 9 05:00 end + 2h grace passed for the stale session only
	now := time.Date(2026, 3, 9, 22, 0, 0, 0, loc)
	jobs := newTestJobs(attRepo, userRepo, now)

	require.NoError(t, jobs.CloseNoCheckoutSessions(context.Background()))

	stale, err := attRepo.GetByID(context.Background(), "stale")
	require.NoError(t, err)
	assert.Equal(t, shift.StatusNoCheckout, stale.Status)
	assert.Nil(t, stale.CheckOutAt)

	fresh, err := attRepo.GetByID(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, shift.StatusOnTime, fresh.Status)
}
