package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/override"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/task"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/email"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.Repository
	userRepo       user.Repository
	overrideRepo   override.Repository
	taskRepo       task.Repository
	emailSvc       email.EmailService
	defaults       config.AttendanceConfig

	// Injectable for tests
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.Repository,
	userRepo user.Repository,
	overrideRepo override.Repository,
	taskRepo task.Repository,
	emailSvc email.EmailService,
	defaults config.AttendanceConfig,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		overrideRepo:   overrideRepo,
		taskRepo:       taskRepo,
		emailSvc:       emailSvc,
		defaults:       defaults,
		now:            time.Now,
	}
}

// scheduleFor builds the user's effective schedule from their personal
// times, falling back to the system defaults.
func (s *AttendanceServiceImpl) scheduleFor(u user.User) (shift.Schedule, error) {
	checkIn := s.defaults.DefaultCheckInTime
	if u.CheckInTime != nil {
		checkIn = *u.CheckInTime
	}
	checkOut := s.defaults.DefaultCheckOutTime
	if u.CheckOutTime != nil {
		checkOut = *u.CheckOutTime
	}
	return shift.NewSchedule(checkIn, checkOut, s.defaults.DefaultTimezone)
}

// resolveShift maps now onto the user's current shift day and returns
// the scheduled start, with any one-day check-in override applied.
func (s *AttendanceServiceImpl) resolveShift(ctx context.Context, u user.User, now time.Time) (shift.Key, shift.Schedule, time.Time, error) {
	sched, err := s.scheduleFor(u)
	if err != nil {
		return shift.Key{}, shift.Schedule{}, time.Time{}, err
	}

	key, start := shift.Resolve(now, sched)

	ov, err := s.overrideRepo.GetByUserAndShiftDate(ctx, u.ID, key.Date(time.UTC))
	if err != nil {
		return shift.Key{}, shift.Schedule{}, time.Time{}, fmt.Errorf("failed to look up override: %w", err)
	}
	if ov != nil {
		t, err := shift.ParseTimeOfDay("check_in_time", ov.CheckInTime)
		if err == nil {
			sched = sched.WithCheckIn(t)
			start = key.Start(sched)
		}
	}

	return key, sched, start, nil
}

// scheduledStart returns the override-adjusted scheduled start for a
// known shift key.
func (s *AttendanceServiceImpl) scheduledStart(ctx context.Context, u user.User, key shift.Key) (time.Time, error) {
	sched, err := s.scheduleFor(u)
	if err != nil {
		return time.Time{}, err
	}

	ov, err := s.overrideRepo.GetByUserAndShiftDate(ctx, u.ID, key.Date(time.UTC))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to look up override: %w", err)
	}
	if ov != nil {
		if t, err := shift.ParseTimeOfDay("check_in_time", ov.CheckInTime); err == nil {
			sched = sched.WithCheckIn(t)
		}
	}

	return key.Start(sched), nil
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	key, _, start, err := s.resolveShift(ctx, u, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := s.attendanceRepo.GetByUserAndShiftDate(ctx, userID, key.Date(time.UTC))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to look up attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	checkInAt := now.UTC()
	status := shift.Classify(checkInAt, start, s.defaults.LateThresholdMinutes)

	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		UserID:           userID,
		ShiftDate:        key.Date(time.UTC),
		CheckInAt:        &checkInAt,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		Status:           status,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	created.UserID = userID

	go s.sendCheckInConfirmation(u, key, checkInAt, status)
	if status == shift.StatusLate {
		go s.notifyAdminsLate(u, key, checkInAt, start)
	}

	return toResponse(created), nil
}

// sendCheckInConfirmation emails the employee their recorded check-in.
// Soft-fail: an SMTP problem never breaks the punch.
func (s *AttendanceServiceImpl) sendCheckInConfirmation(u user.User, key shift.Key, checkInAt time.Time, status shift.Status) {
	err := s.emailSvc.SendCheckInConfirmation(
		u.Email,
		u.Name,
		key.String(),
		checkInAt.Format(time.RFC3339),
		string(status),
	)
	if err != nil {
		slog.Error("Failed to send check-in confirmation", "user_id", u.ID, "error", err)
	}
}

// notifyAdminsLate emails every admin about a late check-in. Runs off
// the request path; failures are logged, never surfaced.
func (s *AttendanceServiceImpl) notifyAdminsLate(u user.User, key shift.Key, checkInAt, scheduledAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admins, err := s.userRepo.ListByRole(ctx, user.RoleAdmin)
	if err != nil {
		slog.Error("Failed to list admins for late alert", "error", err)
		return
	}

	for _, admin := range admins {
		err := s.emailSvc.SendLateAlert(
			admin.Email,
			u.Name,
			key.String(),
			checkInAt.Format(time.RFC3339),
			scheduledAt.Format(time.RFC3339),
		)
		if err != nil {
			slog.Error("Failed to send late alert", "admin", admin.Email, "error", err)
		}
	}
}

// CheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return attendance.AttendanceResponse{}, attendance.ErrLocationRequired
	}

	session, err := s.attendanceRepo.GetOpenSession(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if session.CheckOutAt != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	// Open tasks for this shift block the check-out
	incomplete, err := s.taskRepo.CountIncomplete(ctx, userID, session.ShiftDate)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to count incomplete tasks: %w", err)
	}
	if incomplete > 0 {
		return attendance.AttendanceResponse{}, attendance.ErrIncompleteTasks
	}

	checkOutAt := s.now().UTC()
	session.CheckOutAt = &checkOutAt
	session.CheckOutLatitude = req.Latitude
	session.CheckOutLongitude = req.Longitude

	if err := s.attendanceRepo.Update(ctx, session); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	go s.sendCheckOutConfirmation(userID, session, checkOutAt)

	return toResponse(session), nil
}

// sendCheckOutConfirmation emails the employee their recorded check-out
// with the shift duration. Soft-fail like the check-in confirmation.
func (s *AttendanceServiceImpl) sendCheckOutConfirmation(userID string, session attendance.Attendance, checkOutAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		slog.Error("Failed to load user for check-out confirmation", "user_id", userID, "error", err)
		return
	}

	duration := "unknown"
	if session.CheckInAt != nil {
		duration = checkOutAt.Sub(*session.CheckInAt).Round(time.Minute).String()
	}

	err = s.emailSvc.SendCheckOutConfirmation(
		u.Email,
		u.Name,
		session.ShiftDate.Format("2006-01-02"),
		checkOutAt.Format(time.RFC3339),
		duration,
	)
	if err != nil {
		slog.Error("Failed to send check-out confirmation", "user_id", userID, "error", err)
	}
}

// Status implements attendance.Service.
func (s *AttendanceServiceImpl) Status(ctx context.Context, userID string) (attendance.StatusResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	now := s.now()
	key, sched, _, err := s.resolveShift(ctx, u, now)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	record, err := s.attendanceRepo.GetByUserAndShiftDate(ctx, userID, key.Date(time.UTC))
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to look up attendance: %w", err)
	}

	response := attendance.StatusResponse{
		ShiftDate:    key.String(),
		CheckInTime:  sched.CheckIn.String(),
		CheckOutTime: sched.CheckOut.String(),
		CanCheckIn:   record == nil,
	}
	if record != nil {
		resp := toResponse(*record)
		response.Attendance = &resp
		response.CanCheckOut = record.CheckInAt != nil &&
			record.CheckOutAt == nil &&
			record.Status != shift.StatusAbsent &&
			record.Status != shift.StatusNoCheckout
	}

	return response, nil
}

// History implements attendance.Service.
func (s *AttendanceServiceImpl) History(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.ListResponse, error) {
	records, total, err := s.attendanceRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}
	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

// List implements attendance.Service.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}
	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

// Get implements attendance.Service.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toResponse(record), nil
}

// Update implements attendance.Service.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateRequest) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.CheckInAt != nil {
		if *req.CheckInAt == "" {
			record.CheckInAt = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.CheckInAt)
			if err != nil {
				return attendance.AttendanceResponse{}, fmt.Errorf("invalid check_in_at: %w", err)
			}
			utc := t.UTC()
			record.CheckInAt = &utc
		}
	}
	if req.CheckOutAt != nil {
		if *req.CheckOutAt == "" {
			record.CheckOutAt = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.CheckOutAt)
			if err != nil {
				return attendance.AttendanceResponse{}, fmt.Errorf("invalid check_out_at: %w", err)
			}
			utc := t.UTC()
			record.CheckOutAt = &utc
		}
	}
	if req.Status != nil {
		record.Status = shift.Status(strings.ToUpper(*req.Status))
	} else if req.CheckInAt != nil && record.CheckInAt != nil {
		// A corrected punch time reclassifies the record unless the
		// admin pinned a status explicitly
		u, err := s.userRepo.GetByID(ctx, record.UserID)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		start, err := s.scheduledStart(ctx, u, record.Key())
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.Status = shift.Classify(*record.CheckInAt, start, s.defaults.LateThresholdMinutes)
	}
	if req.CheckInLatitude != nil {
		record.CheckInLatitude = req.CheckInLatitude
	}
	if req.CheckInLongitude != nil {
		record.CheckInLongitude = req.CheckInLongitude
	}
	if req.CheckOutLatitude != nil {
		record.CheckOutLatitude = req.CheckOutLatitude
	}
	if req.CheckOutLongitude != nil {
		record.CheckOutLongitude = req.CheckOutLongitude
	}

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toResponse(record), nil
}

// Delete implements attendance.Service.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	return s.attendanceRepo.Delete(ctx, id)
}

func toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		UserName:          a.UserName,
		UserEmail:         a.UserEmail,
		ShiftDate:         a.ShiftDate.Format("2006-01-02"),
		CheckInLatitude:   a.CheckInLatitude,
		CheckInLongitude:  a.CheckInLongitude,
		CheckOutLatitude:  a.CheckOutLatitude,
		CheckOutLongitude: a.CheckOutLongitude,
		Status:            string(a.Status),
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckInAt != nil {
		v := a.CheckInAt.Format(time.RFC3339)
		resp.CheckInAt = &v
	}
	if a.CheckOutAt != nil {
		v := a.CheckOutAt.Format(time.RFC3339)
		resp.CheckOutAt = &v
	}
	return resp
}

func toListResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListResponse {
	response := attendance.ListResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	if limit > 0 {
		response.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	for _, record := range records {
		response.Attendances = append(response.Attendances, toResponse(record))
	}
	return response
}
