package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
)

// noCheckoutGrace is how long after the scheduled shift end an open
// session may stay open before it is closed as NO_CHECKOUT.
const noCheckoutGrace = 2 * time.Hour

type AttendanceJobs struct {
	attendanceRepo attendance.Repository
	userRepo       user.Repository
	defaults       config.AttendanceConfig
	now            func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.Repository,
	userRepo user.Repository,
	defaults config.AttendanceConfig,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		defaults:       defaults,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
	scheduler.AddJob("close_no_checkout_sessions", 1*time.Hour, j.CloseNoCheckoutSessions)
}

// scheduleFor builds a user's effective schedule, falling back to the
// system defaults for any time they have not set.
func (j *AttendanceJobs) scheduleFor(u user.User) (shift.Schedule, error) {
	checkIn := j.defaults.DefaultCheckInTime
	if u.CheckInTime != nil {
		checkIn = *u.CheckInTime
	}
	checkOut := j.defaults.DefaultCheckOutTime
	if u.CheckOutTime != nil {
		checkOut = *u.CheckOutTime
	}
	return shift.NewSchedule(checkIn, checkOut, j.defaults.DefaultTimezone)
}

// lastClosedKey returns the most recent shift day whose scheduled end
// has already passed.
func lastClosedKey(now time.Time, s shift.Schedule) shift.Key {
	key, _ := shift.Resolve(now, s)
	if now.Before(key.End(s)) {
		return key.Prev(s.Location)
	}
	return key
}

// MarkAbsentEmployees creates ABSENT records for every employee whose
// most recently ended shift has no record at all. Runs hourly and is
// idempotent: a second pass finds the record it created and skips.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	users, err := j.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	now := j.now()
	marked := 0

	for _, u := range users {
		sched, err := j.scheduleFor(u)
		if err != nil {
			slog.Error("Cron: Skipping user with invalid schedule", "user_id", u.ID, "error", err)
			continue
		}

		key := lastClosedKey(now, sched)

		// Don't mark users absent for shifts that ended before they existed
		if u.CreatedAt.After(key.End(sched)) {
			continue
		}

		existing, err := j.attendanceRepo.GetByUserAndShiftDate(ctx, u.ID, key.Date(time.UTC))
		if err != nil {
			slog.Error("Cron: Failed to look up attendance", "user_id", u.ID, "shift_date", key.String(), "error", err)
			continue
		}
		if existing != nil {
			continue
		}

		_, err = j.attendanceRepo.Create(ctx, attendance.Attendance{
			UserID:    u.ID,
			ShiftDate: key.Date(time.UTC),
			Status:    shift.StatusAbsent,
		})
		if err != nil {
			slog.Error("Cron: Failed to create absence record", "user_id", u.ID, "shift_date", key.String(), "error", err)
			continue
		}
		marked++
	}

	if marked > 0 {
		slog.Info("Cron: Marked absent employees", "count", marked)
	}
	return nil
}

// CloseNoCheckoutSessions flips open sessions to NO_CHECKOUT once the
// scheduled shift end plus a grace window has passed. The check-out
// timestamp stays empty; only the status records that the shift was
// never closed by the employee.
func (j *AttendanceJobs) CloseNoCheckoutSessions(ctx context.Context) error {
	sessions, err := j.attendanceRepo.ListOpenSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}

	now := j.now()
	closed := 0

	for _, session := range sessions {
		u, err := j.userRepo.GetByID(ctx, session.UserID)
		if err != nil {
			slog.Error("Cron: Failed to load user for open session", "attendance_id", session.ID, "error", err)
			continue
		}

		sched, err := j.scheduleFor(u)
		if err != nil {
			slog.Error("Cron: Skipping session with invalid schedule", "attendance_id", session.ID, "error", err)
			continue
		}

		deadline := session.Key().End(sched).Add(noCheckoutGrace)
		if now.Before(deadline) {
			continue
		}

		session.Status = shift.StatusNoCheckout
		if err := j.attendanceRepo.Update(ctx, session); err != nil {
			slog.Error("Cron: Failed to close session",
				"attendance_id", session.ID,
				"user_id", session.UserID,
				"error", err)
			continue
		}
		closed++
	}

	if closed > 0 {
		slog.Info("Cron: Closed sessions without check-out", "count", closed)
	}
	return nil
}
