package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func karachi(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)
	return loc
}

func mustSchedule(t *testing.T, in, out, tz string) Schedule {
	t.Helper()
	s, err := NewSchedule(in, out, tz)
	require.NoError(t, err)
	return s
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tod, err := ParseTimeOfDay("check_in_time", "21:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 21, Minute: 0}, tod)

	tod, err = ParseTimeOfDay("check_in_time", "00:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 0, Minute: 0}, tod)

	for _, bad := range []string{"", "21", "21:0x", "24:00", "12:60", "-1:30", "9:5:0"} {
		_, err := ParseTimeOfDay("check_in_time", bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestNewSchedule_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewSchedule("09:00", "09:00", "Asia/Karachi")
	assert.Error(t, err, "equal check-in and check-out is a configuration error")

	_, err = NewSchedule("09:00", "17:00", "Mars/Olympus")
	assert.Error(t, err)

	_, err = NewSchedule("25:00", "17:00", "Asia/Karachi")
	assert.Error(t, err)
}

func TestSchedule_Overnight(t *testing.T) {
	t.Parallel()

	assert.True(t, mustSchedule(t, "22:00", "06:00", "Asia/Karachi").Overnight())
	assert.True(t, mustSchedule(t, "16:00", "00:00", "Asia/Karachi").Overnight(), "midnight check-out reads earlier than 16:00")
	assert.False(t, mustSchedule(t, "09:00", "17:00", "Asia/Karachi").Overnight())
	assert.False(t, mustSchedule(t, "00:00", "08:00", "Asia/Karachi").Overnight())
}

func TestResolve_OvernightShift(t *testing.T) {
	t.Parallel()
	loc := karachi(t)
	s := mustSchedule(t, "22:00", "06:00", "Asia/Karachi")

	cases := []struct {
		name    string
		instant time.Time
		want    string
	}{
		{"before midnight stays on its own day", time.Date(2025, 12, 12, 23, 5, 0, 0, loc), "2025-12-12"},
		{"after midnight belongs to previous day", time.Date(2025, 12, 13, 0, 30, 0, 0, loc), "2025-12-12"},
		{"after check-out starts the next shift day", time.Date(2025, 12, 13, 7, 0, 0, 0, loc), "2025-12-13"},
		{"exactly at check-out is the new day", time.Date(2025, 12, 13, 6, 0, 0, 0, loc), "2025-12-13"},
		{"one minute before check-out is the old day", time.Date(2025, 12, 13, 5, 59, 0, 0, loc), "2025-12-12"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, start := Resolve(tc.instant, s)
			assert.Equal(t, tc.want, key.String())
			assert.Equal(t, key.Day, start.In(loc).Day())
			assert.Equal(t, 22, start.In(loc).Hour())
		})
	}
}

func TestResolve_MonthAndYearRollover(t *testing.T) {
	t.Parallel()
	loc := karachi(t)
	s := mustSchedule(t, "22:00", "06:00", "Asia/Karachi")

	key, _ := Resolve(time.Date(2026, 1, 1, 1, 0, 0, 0, loc), s)
	assert.Equal(t, "2025-12-31", key.String())

	key, _ = Resolve(time.Date(2025, 3, 1, 2, 0, 0, 0, loc), s)
	assert.Equal(t, "2025-02-28", key.String())
}

func TestResolve_SameDayShiftNeverSubtracts(t *testing.T) {
	t.Parallel()
	loc := karachi(t)
	s := mustSchedule(t, "09:00", "17:00", "Asia/Karachi")

	for _, hm := range [][2]int{{8, 0}, {9, 5}, {16, 59}, {0, 1}, {23, 59}} {
		key, _ := Resolve(time.Date(2025, 6, 1, hm[0], hm[1], 0, 0, loc), s)
		assert.Equal(t, "2025-06-01", key.String(), "at %02d:%02d", hm[0], hm[1])
	}
}

func TestResolve_BoundaryIdempotence(t *testing.T) {
	t.Parallel()
	loc := karachi(t)
	s := mustSchedule(t, "22:00", "06:00", "Asia/Karachi")

	start := time.Date(2025, 12, 12, 22, 0, 0, 0, loc)
	next := start.AddDate(0, 0, 1)

	// Every instant between one scheduled start and the next resolves to
	// the earlier start's shift day.
	for probe := start; probe.Before(next); probe = probe.Add(37 * time.Minute) {
		key, _ := Resolve(probe, s)
		assert.Equal(t, "2025-12-12", key.String(), "at %s", probe.In(loc))
	}
}

func TestResolve_RoundTrip(t *testing.T) {
	t.Parallel()
	loc := karachi(t)

	for _, s := range []Schedule{
		mustSchedule(t, "22:00", "06:00", "Asia/Karachi"),
		mustSchedule(t, "09:00", "17:00", "Asia/Karachi"),
		mustSchedule(t, "16:00", "00:00", "Asia/Karachi"),
	} {
		key, start := Resolve(time.Date(2025, 12, 12, 23, 0, 0, 0, loc), s)
		again, _ := Resolve(start, s)
		assert.Equal(t, key, again, "resolving a scheduled start returns its own key")
	}
}

func TestResolve_InstantFromOtherZone(t *testing.T) {
	t.Parallel()
	s := mustSchedule(t, "22:00", "06:00", "Asia/Karachi")

	// 2025-12-12 20:30 UTC is 2025-12-13 01:30 in Karachi, which is the
	// tail of the Dec 12 shift.
	key, _ := Resolve(time.Date(2025, 12, 12, 20, 30, 0, 0, time.UTC), s)
	assert.Equal(t, "2025-12-12", key.String())
}

func TestKey_Start_WithOverride(t *testing.T) {
	t.Parallel()
	loc := karachi(t)
	s := mustSchedule(t, "21:00", "05:00", "Asia/Karachi")
	key := Key{Year: 2025, Month: 12, Day: 12}

	normal := key.Start(s)
	assert.Equal(t, time.Date(2025, 12, 12, 21, 0, 0, 0, loc).Unix(), normal.Unix())

	override, err := ParseTimeOfDay("new_check_in_time", "23:00")
	require.NoError(t, err)
	adjusted := key.Start(s.WithCheckIn(override))
	assert.Equal(t, 2*time.Hour, adjusted.Sub(normal))

	// The override applies to one key only; other days keep 21:00.
	other := Key{Year: 2025, Month: 12, Day: 13}
	assert.Equal(t, 21, other.Start(s).In(loc).Hour())
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	key, err := ParseKey("2025-12-12")
	require.NoError(t, err)
	assert.Equal(t, Key{Year: 2025, Month: time.December, Day: 12}, key)

	_, err = ParseKey("12/12/2025")
	assert.Error(t, err)
}
