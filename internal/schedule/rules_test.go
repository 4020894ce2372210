package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Julianb233/appointment-service/internal/domain"
)

// weekdayConfig: понедельник-пятница 09:00-17:00 UTC, слоты по 30 минут.
func weekdayConfig() *domain.AvailabilityConfig {
	hours := make(map[time.Weekday][]domain.MinuteInterval)
	for day := time.Monday; day <= time.Friday; day++ {
		hours[day] = []domain.MinuteInterval{{StartMinute: 9 * 60, EndMinute: 17 * 60}}
	}
	return &domain.AvailabilityConfig{
		ID:                  1,
		FacilityID:          10,
		Version:             1,
		Timezone:            "UTC",
		WorkingHours:        hours,
		SlotDurationMinutes: 30,
		BufferMinutes:       0,
		MinLeadTimeMinutes:  60,
		MaxAdvanceDays:      30,
	}
}

func mustEngine(t *testing.T, cfg *domain.AvailabilityConfig) *RuleEngine {
	t.Helper()
	engine, err := NewRuleEngine(cfg)
	require.NoError(t, err)
	return engine
}

func slotAt(start time.Time, minutes int) domain.TimeSlot {
	return domain.TimeSlot{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func TestNewRuleEngine_UnknownTimezone(t *testing.T) {
	cfg := weekdayConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	_, err := NewRuleEngine(cfg)
	assert.Error(t, err)
}

func TestIsWithinWorkingHours(t *testing.T) {
	engine := mustEngine(t, weekdayConfig())

	// 2026-01-26 - понедельник.
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		slot domain.TimeSlot
		want bool
	}{
		{
			name: "first slot of the day",
			slot: slotAt(monday.Add(9*time.Hour), 30),
			want: true,
		},
		{
			name: "last slot touching closing time",
			slot: slotAt(monday.Add(16*time.Hour+30*time.Minute), 30),
			want: true,
		},
		{
			name: "slot crossing closing time",
			slot: slotAt(monday.Add(16*time.Hour+45*time.Minute), 30),
			want: false,
		},
		{
			name: "before opening",
			slot: slotAt(monday.Add(8*time.Hour+30*time.Minute), 30),
			want: false,
		},
		{
			name: "sunday is closed",
			slot: slotAt(monday.AddDate(0, 0, -1).Add(10*time.Hour), 30),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.IsWithinWorkingHours(tt.slot))
		})
	}
}

func TestIsWithinWorkingHours_UntilMidnight(t *testing.T) {
	cfg := weekdayConfig()
	cfg.WorkingHours[time.Monday] = []domain.MinuteInterval{
		{StartMinute: 20 * 60, EndMinute: domain.MinutesPerDay},
	}
	engine := mustEngine(t, cfg)

	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)

	// Слот 23:30-00:00 заканчивается ровно в полночь следующего дня.
	assert.True(t, engine.IsWithinWorkingHours(slotAt(monday.Add(23*time.Hour+30*time.Minute), 30)))
	// Слот, переваливающий за полночь, вне рабочих часов.
	assert.False(t, engine.IsWithinWorkingHours(slotAt(monday.Add(23*time.Hour+45*time.Minute), 30)))
}

func TestIsExcluded_PartialOverlap(t *testing.T) {
	cfg := weekdayConfig()
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)
	cfg.ExcludedRanges = []domain.ExcludedRange{
		{
			StartsAt: monday.Add(12 * time.Hour),
			EndsAt:   monday.Add(13 * time.Hour),
			Reason:   "техническое обслуживание",
		},
	}
	engine := mustEngine(t, cfg)

	// Хвост слота 11:45-12:15 попадает в исключённый диапазон.
	assert.True(t, engine.IsExcluded(slotAt(monday.Add(11*time.Hour+45*time.Minute), 30)))
	// Слот 11:30-12:00 заканчивается ровно на границе - не пересекается.
	assert.False(t, engine.IsExcluded(slotAt(monday.Add(11*time.Hour+30*time.Minute), 30)))
	assert.True(t, engine.IsExcluded(slotAt(monday.Add(12*time.Hour+30*time.Minute), 30)))
}

func TestIsBookable(t *testing.T) {
	cfg := weekdayConfig()
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)
	cfg.ExcludedRanges = []domain.ExcludedRange{
		{StartsAt: monday.Add(12 * time.Hour), EndsAt: monday.Add(13 * time.Hour)},
	}
	engine := mustEngine(t, cfg)

	now := monday.Add(8 * time.Hour)

	tests := []struct {
		name     string
		slot     domain.TimeSlot
		now      time.Time
		wantKind ViolationKind
	}{
		{
			name: "legal slot",
			slot: slotAt(monday.Add(10*time.Hour), 30),
			now:  now,
		},
		{
			name:     "outside working hours",
			slot:     slotAt(monday.Add(7*time.Hour), 30),
			now:      now,
			wantKind: ViolationOutsideWorkingHours,
		},
		{
			name:     "excluded range",
			slot:     slotAt(monday.Add(12*time.Hour), 30),
			now:      now,
			wantKind: ViolationExcluded,
		},
		{
			name:     "violates lead time",
			slot:     slotAt(monday.Add(9*time.Hour), 30),
			now:      monday.Add(8*time.Hour + 30*time.Minute),
			wantKind: ViolationTooSoon,
		},
		{
			name:     "beyond advance window",
			slot:     slotAt(monday.AddDate(0, 0, 31).Add(10*time.Hour), 30),
			now:      now,
			wantKind: ViolationTooFarAhead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violation := engine.IsBookable(tt.slot, tt.now)
			if tt.wantKind == "" {
				assert.Nil(t, violation)
				return
			}
			require.NotNil(t, violation)
			assert.Equal(t, tt.wantKind, violation.Kind)
		})
	}
}

func TestIsBookable_AdvanceWindowBoundary(t *testing.T) {
	cfg := weekdayConfig()
	cfg.MaxAdvanceDays = 7
	engine := mustEngine(t, cfg)

	// Понедельник 26 января, граница окна - понедельник 2 февраля включительно.
	now := time.Date(2026, time.January, 26, 8, 0, 0, 0, time.UTC)
	lastAllowedDay := time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC)

	assert.Nil(t, engine.IsBookable(slotAt(lastAllowedDay, 30), now))

	dayAfter := lastAllowedDay.AddDate(0, 0, 1)
	violation := engine.IsBookable(slotAt(dayAfter, 30), now)
	require.NotNil(t, violation)
	assert.Equal(t, ViolationTooFarAhead, violation.Kind)
}

func TestIsBookable_NoAdvanceLimit(t *testing.T) {
	cfg := weekdayConfig()
	cfg.MaxAdvanceDays = 0
	engine := mustEngine(t, cfg)

	now := time.Date(2026, time.January, 26, 8, 0, 0, 0, time.UTC)
	farFuture := time.Date(2027, time.June, 7, 10, 0, 0, 0, time.UTC) // тоже понедельник

	assert.Nil(t, engine.IsBookable(slotAt(farFuture, 30), now))
}
