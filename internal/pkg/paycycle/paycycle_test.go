package paycycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestForDate_DayOnOrAfterSixth(t *testing.T) {
	w := ForDate(date(2024, time.March, 15))

	assert.Equal(t, date(2024, time.March, 6), w.Start)
	assert.Equal(t, date(2024, time.April, 5), w.End)
}

func TestForDate_DayBeforeSixth(t *testing.T) {
	w := ForDate(date(2024, time.March, 3))

	assert.Equal(t, date(2024, time.February, 6), w.Start)
	assert.Equal(t, date(2024, time.March, 5), w.End)
}

func TestForDate_BoundaryDays(t *testing.T) {
	// The 5th is the last day of the previous cycle.
	w := ForDate(date(2024, time.December, 5))
	assert.Equal(t, date(2024, time.November, 6), w.Start)
	assert.Equal(t, date(2024, time.December, 5), w.End)

	// The 6th opens a fresh cycle.
	w = ForDate(date(2024, time.December, 6))
	assert.Equal(t, date(2024, time.December, 6), w.Start)
	assert.Equal(t, date(2025, time.January, 5), w.End)
}

func TestForDate_YearWrap(t *testing.T) {
	// Early January belongs to the cycle that started in December.
	w := ForDate(date(2025, time.January, 2))
	assert.Equal(t, date(2024, time.December, 6), w.Start)
	assert.Equal(t, date(2025, time.January, 5), w.End)

	// Late December reaches into January of the next year.
	w = ForDate(date(2024, time.December, 31))
	assert.Equal(t, date(2024, time.December, 6), w.Start)
	assert.Equal(t, date(2025, time.January, 5), w.End)
}

func TestForDate_LeapFebruary(t *testing.T) {
	// 2024 is a leap year; Feb 29 sits inside the Feb 6 - Mar 5 cycle.
	w := ForDate(date(2024, time.February, 29))
	assert.Equal(t, date(2024, time.February, 6), w.Start)
	assert.Equal(t, date(2024, time.March, 5), w.End)

	// Early March of a leap year still closes on the 5th.
	w = ForDate(date(2024, time.March, 1))
	assert.Equal(t, date(2024, time.February, 6), w.Start)
	assert.Equal(t, date(2024, time.March, 5), w.End)
}

func TestForDate_IdempotentInsideWindow(t *testing.T) {
	w := ForDate(date(2024, time.July, 20))

	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		assert.Equal(t, w, ForDate(d), "date %s should map to the same window", d.Format("2006-01-02"))
	}
}

func TestForDateOffset(t *testing.T) {
	ref := date(2024, time.March, 15)

	tests := []struct {
		name   string
		offset int
		start  time.Time
		end    time.Time
	}{
		{"zero is current cycle", 0, date(2024, time.March, 6), date(2024, time.April, 5)},
		{"next cycle", 1, date(2024, time.April, 6), date(2024, time.May, 5)},
		{"previous cycle", -1, date(2024, time.February, 6), date(2024, time.March, 5)},
		{"negative across year boundary", -3, date(2023, time.December, 6), date(2024, time.January, 5)},
		{"far forward across year boundary", 10, date(2025, time.January, 6), date(2025, time.February, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ForDateOffset(ref, tt.offset)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
		})
	}
}

func TestForDateOffset_StableAcrossCycleDates(t *testing.T) {
	// Every date inside one cycle must anchor offsets identically.
	a := ForDateOffset(date(2024, time.March, 6), -2)
	b := ForDateOffset(date(2024, time.April, 5), -2)
	assert.Equal(t, a, b)
}

func TestWindow_Contains(t *testing.T) {
	w := ForDate(date(2024, time.March, 15))

	assert.True(t, w.Contains(date(2024, time.March, 6)))
	assert.True(t, w.Contains(date(2024, time.April, 5)))
	assert.True(t, w.Contains(time.Date(2024, time.April, 5, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(date(2024, time.March, 5)))
	assert.False(t, w.Contains(date(2024, time.April, 6)))
}

func TestWindow_EndExclusive(t *testing.T) {
	w := ForDate(date(2024, time.December, 20))
	assert.Equal(t, date(2025, time.January, 6), w.EndExclusive())
}
