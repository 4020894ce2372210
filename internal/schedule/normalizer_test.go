package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInstant_RoundTrip(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		wc   WallClock
		loc  *time.Location
	}{
		{
			name: "utc midday",
			wc:   WallClock{Year: 2026, Month: time.January, Day: 26, MinuteOfDay: 12 * 60},
			loc:  time.UTC,
		},
		{
			name: "new york morning",
			wc:   WallClock{Year: 2026, Month: time.January, Day: 26, MinuteOfDay: 9*60 + 30},
			loc:  ny,
		},
		{
			name: "local midnight",
			wc:   WallClock{Year: 2026, Month: time.July, Day: 4, MinuteOfDay: 0},
			loc:  ny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := ToInstant(tt.wc, tt.loc)
			require.NoError(t, err)
			assert.Equal(t, time.UTC, instant.Location())
			assert.Equal(t, tt.wc, ToWallClock(instant, tt.loc))
		})
	}
}

func TestToInstant_DSTGap(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 02:30 не существует: в 02:00 стрелки переводятся на 03:00.
	_, err = ToInstant(WallClock{Year: 2026, Month: time.March, Day: 8, MinuteOfDay: 2*60 + 30}, ny)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimeInput)
}

func TestToInstant_MinuteOutOfRange(t *testing.T) {
	for _, minute := range []int{-1, 24 * 60, 24*60 + 15} {
		_, err := ToInstant(WallClock{Year: 2026, Month: time.January, Day: 26, MinuteOfDay: minute}, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidTimeInput, "minute %d", minute)
	}
}

func TestToWallClock_CrossesMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC 27 января = 21:00 26 января в Нью-Йорке.
	instant := time.Date(2026, time.January, 27, 2, 0, 0, 0, time.UTC)
	wc := ToWallClock(instant, ny)

	assert.Equal(t, 26, wc.Day)
	assert.Equal(t, 21*60, wc.MinuteOfDay)

	year, month, day := DateOf(instant, ny)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.January, month)
	assert.Equal(t, 26, day)
}
