// Package paycycle computes the portal's 6th-to-5th billing windows.
// Attendance reports, leaderboards and gamification cycle resets all bucket
// records by these windows, so the arithmetic lives in one place.
package paycycle

import "time"

// CycleStartDay is the day of month a pay cycle begins on. A cycle runs from
// the 6th of one month through the 5th of the next, inclusive on both ends.
const CycleStartDay = 6

// Clock supplies "now" to anything that needs the current pay cycle.
// Injecting it keeps cycle-dependent code deterministic under test.
type Clock func() time.Time

// Window is a closed [Start, End] date interval at day granularity.
// Start and End are midnight in the reference date's location.
type Window struct {
	Start time.Time
	End   time.Time
}

// ForDate returns the pay cycle containing d.
//
// If d's day of month is on or after the 6th the cycle starts on the 6th of
// d's month and ends on the 5th of the following month. Otherwise the cycle
// started on the 6th of the previous month and ends on the 5th of d's month.
// time.Date normalizes out-of-range months, which handles December/January
// wrapping for free.
func ForDate(d time.Time) Window {
	year, month, day := d.Date()
	loc := d.Location()

	startMonth := month
	if day < CycleStartDay {
		startMonth--
	}

	start := time.Date(year, startMonth, CycleStartDay, 0, 0, 0, 0, loc)
	end := time.Date(year, startMonth+1, CycleStartDay-1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: end}
}

// ForDateOffset returns the cycle `months` cycles away from d's cycle.
// Negative offsets walk backwards. The anchor is the cycle start rather than
// d itself so offsets are stable for every date inside the same cycle.
func ForDateOffset(d time.Time, months int) Window {
	base := ForDate(d)
	if months == 0 {
		return base
	}
	shifted := base.Start.AddDate(0, months, 0)
	return ForDate(shifted)
}

// Contains reports whether d's calendar date falls inside the window.
func (w Window) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, w.Start.Location())
	return !day.Before(w.Start) && !day.After(w.End)
}

// EndExclusive returns midnight of the day after End, for callers that
// filter timestamps with a half-open [Start, EndExclusive) range.
func (w Window) EndExclusive() time.Time {
	return w.End.AddDate(0, 0, 1)
}
