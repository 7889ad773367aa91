package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/override"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/task"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
)

var testDefaults = config.AttendanceConfig{
	DefaultTimezone:      "Asia/Karachi",
	DefaultCheckInTime:   "21:00",
	DefaultCheckOutTime:  "05:00",
	LateThresholdMinutes: 10,
}

func ptr[T any](v T) *T { return &v }

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error   { return nil }

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.UserID == att.UserID && r.ShiftDate.Equal(att.ShiftDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.nextID++
	att.ID = time.Now().Format("150405.000000") + string(rune('a'+f.nextID))
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r, nil
}

func (f *fakeAttendanceRepo) GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*attendance.Attendance, error) {
	for _, r := range f.records {
		if r.UserID == userID && r.ShiftDate.Format("2006-01-02") == shiftDate.Format("2006-01-02") {
			match := r
			return &match, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, userID string) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.UserID == userID && r.CheckInAt != nil && r.CheckOutAt == nil &&
			r.Status != shift.StatusAbsent && r.Status != shift.StatusNoCheckout {
			return r, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrNotCheckedIn
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	if _, ok := f.records[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	delete(f.records, id)
	return nil
}

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
	return nil, errors.New("not implemented")
}

type fakeOverrideRepo struct {
	overrides []override.Override
}

func (f *fakeOverrideRepo) Upsert(ctx context.Context, ov override.Override) (override.Override, error) {
	f.overrides = append(f.overrides, ov)
	return ov, nil
}

func (f *fakeOverrideRepo) GetByUserAndShiftDate(ctx context.Context, userID string, shiftDate time.Time) (*override.Override, error) {
	for i := range f.overrides {
		ov := f.overrides[i]
		if ov.UserID == userID && ov.ShiftDate.Format("2006-01-02") == shiftDate.Format("2006-01-02") {
			return &ov, nil
		}
	}
	return nil, nil
}

func (f *fakeOverrideRepo) GetByID(ctx context.Context, id string) (override.Override, error) {
	return override.Override{}, override.ErrOverrideNotFound
}

func (f *fakeOverrideRepo) List(ctx context.Context, filter override.ListFilter) ([]override.Override, error) {
	return f.overrides, nil
}

func (f *fakeOverrideRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeTaskRepo struct {
	incomplete int64
}

func (f *fakeTaskRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	return t, nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (task.Task, error) {
	return task.Task{}, task.ErrTaskNotFound
}

func (f *fakeTaskRepo) List(ctx context.Context, filter task.ListFilter) ([]task.Task, int64, error) {
	return nil, 0, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, t task.Task) error { return nil }
func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error   { return nil }

func (f *fakeTaskRepo) CountIncomplete(ctx context.Context, userID string, shiftDate time.Time) (int64, error) {
	return f.incomplete, nil
}

type fakeEmailService struct{}

func (f *fakeEmailService) SendWelcome(to, employeeName, email, checkInTime, checkOutTime string) error {
	return nil
}

func (f *fakeEmailService) SendCheckInConfirmation(to, employeeName, shiftDate, checkInAt, status string) error {
	return nil
}

func (f *fakeEmailService) SendCheckOutConfirmation(to, employeeName, shiftDate, checkOutAt, duration string) error {
	return nil
}

func (f *fakeEmailService) SendLateAlert(to, employeeName, shiftDate, checkInAt, scheduledAt string) error {
	return nil
}

func (f *fakeEmailService) SendLateRequest(to, employeeName, shiftDate, requestedTime, reason, approveLink, rejectLink string) error {
	return nil
}

func (f *fakeEmailService) SendLateRequestDecision(to, employeeName, shiftDate, requestedTime string, approved bool) error {
	return nil
}

type testEnv struct {
	svc      *AttendanceServiceImpl
	attRepo  *fakeAttendanceRepo
	override *fakeOverrideRepo
	tasks    *fakeTaskRepo
	loc      *time.Location
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)

	attRepo := newFakeAttendanceRepo()
	overrideRepo := &fakeOverrideRepo{}
	taskRepo := &fakeTaskRepo{}
	userRepo := &fakeUserRepo{users: map[string]user.User{
		"u1": {ID: "u1", Name: "Night Owl", Email: "owl@example.com", Role: user.RoleEmployee},
	}}

	svc := NewAttendanceService(attRepo, userRepo, overrideRepo, taskRepo, &fakeEmailService{}, testDefaults)
	return &testEnv{svc: svc, attRepo: attRepo, override: overrideRepo, tasks: taskRepo, loc: loc}
}

func (e *testEnv) at(year int, month time.Month, day, hour, min int) {
	now := time.Date(year, month, day, hour, min, 0, 0, e.loc)
	e.svc.now = func() time.Time { return now }
}

func TestCheckIn_OnTimeWithinGrace(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 10)

	resp, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", resp.ShiftDate)
	assert.Equal(t, string(shift.StatusOnTime), resp.Status)
}

func TestCheckIn_LateAfterGrace(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 11)

	resp, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusLate), resp.Status)
}

func TestCheckIn_EarlyBeyondThreshold(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 18, 30)

	resp, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", resp.ShiftDate)
	assert.Equal(t, string(shift.StatusEarly), resp.Status)
}

func TestCheckIn_AfterMidnightBelongsToPreviousDay(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 10, 1, 30)

	resp, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", resp.ShiftDate)
	assert.Equal(t, string(shift.StatusLate), resp.Status)
}

func TestCheckIn_TwicePerShiftRejected(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 0)

	_, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)

	// The 01:00 punch lands on the same shift day
	env.at(2026, 3, 10, 1, 0)
	_, err = env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_OverrideMovesStart(t *testing.T) {
	env := newTestEnv(t)
	env.override.overrides = append(env.override.overrides, override.Override{
		UserID:      "u1",
		ShiftDate:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		CheckInTime: "23:00",
	})
	env.at(2026, 3, 9, 23, 5)

	resp, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", resp.ShiftDate)
	assert.Equal(t, string(shift.StatusOnTime), resp.Status)
}

func TestCheckOut_RequiresLocation(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 0)

	_, err := env.svc.CheckOut(context.Background(), "u1", attendance.CheckOutRequest{Latitude: ptr(24.86)})
	assert.ErrorIs(t, err, attendance.ErrLocationRequired)
}

func TestCheckOut_BlockedByOpenTasks(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 0)
	_, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)

	env.tasks.incomplete = 2
	env.at(2026, 3, 10, 4, 50)
	_, err = env.svc.CheckOut(context.Background(), "u1", attendance.CheckOutRequest{
		Latitude:  ptr(24.8607),
		Longitude: ptr(67.0011),
	})
	assert.ErrorIs(t, err, attendance.ErrIncompleteTasks)
}

func TestCheckOut_ClosesOpenSession(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 0)
	_, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)

	env.at(2026, 3, 10, 4, 50)
	resp, err := env.svc.CheckOut(context.Background(), "u1", attendance.CheckOutRequest{
		Latitude:  ptr(24.8607),
		Longitude: ptr(67.0011),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CheckOutAt)
	assert.Equal(t, string(shift.StatusOnTime), resp.Status)

	// No open session remains
	_, err = env.svc.CheckOut(context.Background(), "u1", attendance.CheckOutRequest{
		Latitude:  ptr(24.8607),
		Longitude: ptr(67.0011),
	})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestStatus_BeforeAndAfterCheckIn(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 20, 0)

	status, err := env.svc.Status(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", status.ShiftDate)
	assert.Equal(t, "21:00", status.CheckInTime)
	assert.Equal(t, "05:00", status.CheckOutTime)
	assert.True(t, status.CanCheckIn)
	assert.False(t, status.CanCheckOut)
	assert.Nil(t, status.Attendance)

	env.at(2026, 3, 9, 21, 5)
	_, err = env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)

	status, err = env.svc.Status(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, status.CanCheckIn)
	assert.True(t, status.CanCheckOut)
	require.NotNil(t, status.Attendance)
	assert.Equal(t, string(shift.StatusOnTime), status.Attendance.Status)
}

func TestStatus_ReportsOverriddenCheckInTime(t *testing.T) {
	env := newTestEnv(t)
	env.override.overrides = append(env.override.overrides, override.Override{
		UserID:      "u1",
		ShiftDate:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		CheckInTime: "23:00",
	})
	env.at(2026, 3, 9, 20, 0)

	status, err := env.svc.Status(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "23:00", status.CheckInTime)
}

func TestUpdate_RecomputesStatusFromCorrectedPunch(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 30)

	created, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)
	require.Equal(t, string(shift.StatusLate), created.Status)

	corrected := time.Date(2026, 3, 9, 21, 5, 0, 0, env.loc).UTC().Format(time.RFC3339)
	updated, err := env.svc.Update(context.Background(), attendance.UpdateRequest{
		ID:        created.ID,
		CheckInAt: &corrected,
	})
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusOnTime), updated.Status)
}

func TestUpdate_ExplicitStatusWins(t *testing.T) {
	env := newTestEnv(t)
	env.at(2026, 3, 9, 21, 5)

	created, err := env.svc.CheckIn(context.Background(), "u1", attendance.CheckInRequest{})
	require.NoError(t, err)

	corrected := time.Date(2026, 3, 9, 22, 0, 0, 0, env.loc).UTC().Format(time.RFC3339)
	pinned := "ABSENT"
	updated, err := env.svc.Update(context.Background(), attendance.UpdateRequest{
		ID:        created.ID,
		CheckInAt: &corrected,
		Status:    &pinned,
	})
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusAbsent), updated.Status)
}
