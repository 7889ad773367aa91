// Package shift resolves raw timestamps onto calendar shift days and
// classifies check-ins against a schedule. Everything in here is pure:
// no I/O, no clocks, safe for concurrent use.
package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
)

// TimeOfDay is a wall-clock time ("HH:mm") without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:mm". The field name is used in the
// validation error so callers can surface it per-field.
func ParseTimeOfDay(field, s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, validator.ValidationErrors{{
			Field:   field,
			Message: "must be in HH:mm format",
		}}
	}

	hour, errH := strconv.Atoi(parts[0])
	minute, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, validator.ValidationErrors{{
			Field:   field,
			Message: "must be a valid 24-hour time in HH:mm format",
		}}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t reads earlier than u on the same clock face.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.minutes() < u.minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Schedule is one employee's recurring shift definition.
type Schedule struct {
	CheckIn  TimeOfDay
	CheckOut TimeOfDay
	Location *time.Location
}

// NewSchedule builds a Schedule from "HH:mm" strings and an IANA zone name.
// Identical check-in and check-out times are rejected rather than guessed
// as a 24-hour shift.
func NewSchedule(checkIn, checkOut, timezone string) (Schedule, error) {
	var errs validator.ValidationErrors

	in, err := ParseTimeOfDay("check_in_time", checkIn)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	out, err := ParseTimeOfDay("check_out_time", checkOut)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "must be a valid IANA timezone identifier",
		})
	}

	if len(errs) == 0 && in == out {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check-out time must differ from check-in time",
		})
	}

	if len(errs) > 0 {
		return Schedule{}, errs
	}

	return Schedule{CheckIn: in, CheckOut: out, Location: loc}, nil
}

// Overnight reports whether the shift spans midnight, i.e. its check-out
// reads earlier on the clock than its check-in (22:00 -> 06:00).
func (s Schedule) Overnight() bool {
	return s.CheckOut.Before(s.CheckIn)
}

// WithCheckIn returns a copy of the schedule with the check-in time
// replaced. Used when a one-day override is in effect.
func (s Schedule) WithCheckIn(t TimeOfDay) Schedule {
	s.CheckIn = t
	return s
}

// Key is the calendar date, in the schedule's timezone, that identifies
// one occurrence of a recurring shift.
type Key struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseKey parses a "YYYY-MM-DD" shift date.
func ParseKey(s string) (Key, error) {
	t, ok := validator.IsValidDate(s)
	if !ok {
		return Key{}, validator.ValidationErrors{{
			Field:   "shift_date",
			Message: "must be in YYYY-MM-DD format",
		}}
	}
	return Key{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
}

// Date returns the key as midnight in loc.
func (k Key) Date(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// Resolve maps an instant onto the shift day it belongs to and returns
// that day's scheduled check-in instant.
//
// The instant is read as a wall clock in the schedule's timezone. For
// same-day shifts the shift day is simply that wall-clock date. For
// overnight shifts, wall-clock times strictly before the check-out time
// are the tail of the previous day's shift, so the key is the previous
// calendar day. Day subtraction is calendar-aware: subtracting 86400
// seconds instead would drift by an hour across DST transitions.
func Resolve(instant time.Time, s Schedule) (Key, time.Time) {
	local := instant.In(s.Location)
	wall := TimeOfDay{Hour: local.Hour(), Minute: local.Minute()}

	day := local
	if s.Overnight() && wall.Before(s.CheckOut) {
		day = local.AddDate(0, 0, -1)
	}

	key := Key{Year: day.Year(), Month: day.Month(), Day: day.Day()}
	return key, key.start(s)
}

// Start returns the scheduled check-in instant for a known shift day.
func (k Key) Start(s Schedule) time.Time {
	return k.start(s)
}

func (k Key) start(s Schedule) time.Time {
	return time.Date(k.Year, k.Month, k.Day, s.CheckIn.Hour, s.CheckIn.Minute, 0, 0, s.Location)
}

// End returns the scheduled check-out instant for a known shift day. For
// overnight shifts this lands on the following calendar day.
func (k Key) End(s Schedule) time.Time {
	day := k.Date(s.Location)
	if s.Overnight() {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), s.CheckOut.Hour, s.CheckOut.Minute, 0, 0, s.Location)
}

// Prev returns the previous calendar day's key.
func (k Key) Prev(loc *time.Location) Key {
	day := k.Date(loc).AddDate(0, 0, -1)
	return Key{Year: day.Year(), Month: day.Month(), Day: day.Day()}
}
