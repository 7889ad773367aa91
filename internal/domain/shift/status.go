package shift

import "time"

// Status is the attendance classification for one shift occurrence.
// EARLY, ON_TIME and LATE come out of Classify; ABSENT and NO_CHECKOUT
// are assigned by the business layer when no check-in exists or a
// check-out never arrived.
type Status string

const (
	StatusEarly      Status = "EARLY"
	StatusOnTime     Status = "ON_TIME"
	StatusLate       Status = "LATE"
	StatusAbsent     Status = "ABSENT"
	StatusNoCheckout Status = "NO_CHECKOUT"
)

// Statuses lists every valid Status value, for request validation.
func Statuses() []string {
	return []string{
		string(StatusEarly),
		string(StatusOnTime),
		string(StatusLate),
		string(StatusAbsent),
		string(StatusNoCheckout),
	}
}

// EarlyThreshold is how far ahead of the scheduled start a check-in may
// arrive before it is flagged EARLY. Arriving up to two hours before an
// overnight shift is normal; beyond that the punch is more likely a
// previous shift bleeding into this one's window, and it gets flagged
// for review instead of silently counting as on time.
const EarlyThreshold = 120 * time.Minute

// Classify compares a check-in instant against the (possibly
// override-adjusted) scheduled start. The grace period is added to the
// start once, and the resulting deadline is inclusive: a check-in at
// exactly start+grace is still ON_TIME.
func Classify(checkInAt, scheduledStart time.Time, graceMinutes int) Status {
	if scheduledStart.Sub(checkInAt) > EarlyThreshold {
		return StatusEarly
	}

	deadline := scheduledStart.Add(time.Duration(graceMinutes) * time.Minute)
	if checkInAt.After(deadline) {
		return StatusLate
	}

	return StatusOnTime
}
