package schedule

import (
	"fmt"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
)

// ViolationKind identifies which availability rule rejected an instant.
type ViolationKind string

const (
	ViolationOutsideWorkingHours ViolationKind = "outside_working_hours"
	ViolationExcluded            ViolationKind = "excluded"
	ViolationTooSoon             ViolationKind = "too_soon"
	ViolationTooFarAhead         ViolationKind = "too_far_ahead"
)

// RuleViolation is the typed result of a failed legality check. It is
// surfaced verbatim to callers so the UI can explain which rule rejected
// the requested slot.
type RuleViolation struct {
	Kind   ViolationKind
	Detail string
}

func (v *RuleViolation) Error() string {
	return fmt.Sprintf("schedule: rule violated (%s): %s", v.Kind, v.Detail)
}

// RuleEngine answers "is this slot schedulable in principle" from an
// immutable configuration snapshot, independent of existing bookings.
// Legality is a pure function of the snapshot, which lets slot generation
// short-circuit cheaply before the booking-overlap check runs.
type RuleEngine struct {
	cfg *domain.AvailabilityConfig
	loc *time.Location
}

// NewRuleEngine loads the facility zone and binds the engine to a config
// snapshot. The snapshot is treated as read-only.
func NewRuleEngine(cfg *domain.AvailabilityConfig) (*RuleEngine, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule: load facility timezone %q: %w", cfg.Timezone, err)
	}
	return &RuleEngine{cfg: cfg, loc: loc}, nil
}

// Location returns the facility zone.
func (e *RuleEngine) Location() *time.Location {
	return e.loc
}

// Config returns the bound configuration snapshot.
func (e *RuleEngine) Config() *domain.AvailabilityConfig {
	return e.cfg
}

// SlotDuration returns the configured slot length.
func (e *RuleEngine) SlotDuration() time.Duration {
	return time.Duration(e.cfg.SlotDurationMinutes) * time.Minute
}

// IsWithinWorkingHours reports whether the slot lies entirely inside one
// working interval of its start day in the facility zone. Slots spanning
// midnight are never within working hours.
func (e *RuleEngine) IsWithinWorkingHours(slot domain.TimeSlot) bool {
	start := ToWallClock(slot.Start, e.loc)
	end := ToWallClock(slot.End, e.loc)

	endMinute := end.MinuteOfDay
	switch {
	case end.Year == start.Year && end.Month == start.Month && end.Day == start.Day:
		// тот же день, минуты сравниваются напрямую
	case endMinute == 0 && isNextDay(start, end):
		// слот заканчивается ровно в полночь следующего дня
		endMinute = domain.MinutesPerDay
	default:
		return false
	}

	weekday := time.Date(start.Year, start.Month, start.Day, 12, 0, 0, 0, time.UTC).Weekday()
	for _, interval := range e.cfg.IntervalsFor(weekday) {
		if interval.Contains(start.MinuteOfDay, endMinute) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether any part of the slot falls into the union of
// excluded ranges. A slot is excluded even when only its tail overlaps.
func (e *RuleEngine) IsExcluded(slot domain.TimeSlot) bool {
	for _, ex := range e.cfg.ExcludedRanges {
		if ex.Overlaps(slot.Start, slot.End) {
			return true
		}
	}
	return false
}

// IsBookable composes the working-hours, exclusion, lead-time and
// advance-window checks. Returns nil when the slot is legal, otherwise the
// first violated rule.
func (e *RuleEngine) IsBookable(slot domain.TimeSlot, now time.Time) *RuleViolation {
	if !e.IsWithinWorkingHours(slot) {
		return &RuleViolation{
			Kind:   ViolationOutsideWorkingHours,
			Detail: "slot is outside facility working hours",
		}
	}

	if e.IsExcluded(slot) {
		return &RuleViolation{
			Kind:   ViolationExcluded,
			Detail: "slot overlaps an excluded time range",
		}
	}

	earliest := now.Add(time.Duration(e.cfg.MinLeadTimeMinutes) * time.Minute)
	if slot.Start.Before(earliest) {
		return &RuleViolation{
			Kind:   ViolationTooSoon,
			Detail: fmt.Sprintf("slot must start at least %d minutes from now", e.cfg.MinLeadTimeMinutes),
		}
	}

	if e.cfg.HasAdvanceLimit() && e.beyondAdvanceWindow(slot.Start, now) {
		return &RuleViolation{
			Kind:   ViolationTooFarAhead,
			Detail: fmt.Sprintf("slot may start at most %d days ahead", e.cfg.MaxAdvanceDays),
		}
	}

	return nil
}

// beyondAdvanceWindow сравнивает календарные даты в зоне заведения: слот
// допустим по день (сегодня + MaxAdvanceDays) включительно.
func (e *RuleEngine) beyondAdvanceWindow(start, now time.Time) bool {
	ny, nm, nd := DateOf(now, e.loc)
	lastAllowed := time.Date(ny, nm, nd, 12, 0, 0, 0, time.UTC).AddDate(0, 0, e.cfg.MaxAdvanceDays)

	sy, sm, sd := DateOf(start, e.loc)
	slotDay := time.Date(sy, sm, sd, 12, 0, 0, 0, time.UTC)

	return slotDay.After(lastAllowed)
}

func isNextDay(start, end WallClock) bool {
	s := time.Date(start.Year, start.Month, start.Day, 12, 0, 0, 0, time.UTC)
	n := s.AddDate(0, 0, 1)
	return end.Year == n.Year() && end.Month == n.Month() && end.Day == n.Day()
}
