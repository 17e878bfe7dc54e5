package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func at(t *testing.T, loc *time.Location, hour, min int) *time.Time {
	t.Helper()
	ts := time.Date(2025, 3, 10, hour, min, 0, 0, loc).UTC()
	return &ts
}

func TestIsPunctualDay(t *testing.T) {
	loc := jakarta(t)

	tests := []struct {
		name     string
		checkIn  *time.Time
		checkOut *time.Time
		want     bool
	}{
		{
			name:     "both windows hit",
			checkIn:  at(t, loc, 10, 15),
			checkOut: at(t, loc, 19, 10),
			want:     true,
		},
		{
			name:     "boundaries are inclusive",
			checkIn:  at(t, loc, 10, 0),
			checkOut: at(t, loc, 19, 30),
			want:     true,
		},
		{
			name:     "upper boundaries",
			checkIn:  at(t, loc, 10, 30),
			checkOut: at(t, loc, 19, 0),
			want:     true,
		},
		{
			name:     "check-in one minute early",
			checkIn:  at(t, loc, 9, 59),
			checkOut: at(t, loc, 19, 15),
			want:     false,
		},
		{
			name:     "check-in one minute late",
			checkIn:  at(t, loc, 10, 31),
			checkOut: at(t, loc, 19, 15),
			want:     false,
		},
		{
			name:     "check-out one minute early",
			checkIn:  at(t, loc, 10, 10),
			checkOut: at(t, loc, 18, 59),
			want:     false,
		},
		{
			name:     "check-out one minute late",
			checkIn:  at(t, loc, 10, 10),
			checkOut: at(t, loc, 19, 31),
			want:     false,
		},
		{
			name:     "punctual check-in alone is not enough",
			checkIn:  at(t, loc, 10, 10),
			checkOut: at(t, loc, 21, 0),
			want:     false,
		},
		{
			name:     "punctual check-out alone is not enough",
			checkIn:  at(t, loc, 8, 30),
			checkOut: at(t, loc, 19, 10),
			want:     false,
		},
		{
			name:     "nil check-in fails closed",
			checkIn:  nil,
			checkOut: at(t, loc, 19, 10),
			want:     false,
		},
		{
			name:     "nil check-out fails closed",
			checkIn:  at(t, loc, 10, 10),
			checkOut: nil,
			want:     false,
		},
		{
			name:     "both nil",
			checkIn:  nil,
			checkOut: nil,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPunctualDay(tt.checkIn, tt.checkOut, loc))
		})
	}
}

// The stored instants are UTC; the window check must happen in the portal
// timezone, not in UTC.
func TestIsPunctualDayTimezoneConversion(t *testing.T) {
	loc := jakarta(t)

	// 03:15 UTC is 10:15 in Asia/Jakarta (UTC+7).
	checkIn := time.Date(2025, 3, 10, 3, 15, 0, 0, time.UTC)
	// 12:05 UTC is 19:05 in Asia/Jakarta.
	checkOut := time.Date(2025, 3, 10, 12, 5, 0, 0, time.UTC)

	assert.True(t, IsPunctualDay(&checkIn, &checkOut, loc))
	assert.False(t, IsPunctualDay(&checkIn, &checkOut, time.UTC))
}

func TestIsPunctualDaySecondsWithinBoundaryMinute(t *testing.T) {
	loc := jakarta(t)

	// 10:30:45 is still inside the window: the check is minute-granular.
	checkIn := time.Date(2025, 3, 10, 10, 30, 45, 0, loc).UTC()
	checkOut := time.Date(2025, 3, 10, 19, 30, 59, 0, loc).UTC()

	assert.True(t, IsPunctualDay(&checkIn, &checkOut, loc))
}
