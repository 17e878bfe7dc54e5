package gamification

import (
	"time"
)

// Punctuality windows in minutes-of-day, both ends inclusive. An employee is
// punctual on a day only when the check-in falls in the morning window AND
// the check-out falls in the evening window, evaluated in the portal
// timezone.
const (
	checkInWindowStart  = 10 * 60    // 10:00
	checkInWindowEnd    = 10*60 + 30 // 10:30
	checkOutWindowStart = 19 * 60    // 19:00
	checkOutWindowEnd   = 19*60 + 30 // 19:30
)

// IsPunctualDay reports whether a completed attendance record qualifies for
// the punctuality bonus. Missing instants fail closed.
func IsPunctualDay(checkIn, checkOut *time.Time, loc *time.Location) bool {
	if checkIn == nil || checkOut == nil {
		return false
	}
	return inWindow(checkIn.In(loc), checkInWindowStart, checkInWindowEnd) &&
		inWindow(checkOut.In(loc), checkOutWindowStart, checkOutWindowEnd)
}

func inWindow(t time.Time, startMin, endMin int) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= startMin && m <= endMin
}
