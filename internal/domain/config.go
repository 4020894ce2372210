package domain

import "time"

// MinuteInterval is a [StartMinute, EndMinute) interval within a day,
// expressed in minutes since local midnight. Invariant: StartMinute < EndMinute.
type MinuteInterval struct {
	StartMinute int
	EndMinute   int
}

// Contains reports whether the [startMinute, endMinute) span lies fully
// inside the interval.
func (i MinuteInterval) Contains(startMinute, endMinute int) bool {
	return startMinute >= i.StartMinute && endMinute <= i.EndMinute
}

// ExcludedRange is an instant range during which no slot may be scheduled,
// regardless of working hours (holidays, maintenance windows). Ranges may
// overlap each other and are treated as a union.
type ExcludedRange struct {
	StartsAt time.Time
	EndsAt   time.Time
	Reason   string
}

// Overlaps reports whether the half-open [start, end) interval intersects
// the excluded range.
func (e ExcludedRange) Overlaps(start, end time.Time) bool {
	return start.Before(e.EndsAt) && e.StartsAt.Before(end)
}

// AvailabilityConfig is the per-facility scheduling configuration. Loaded
// snapshots are immutable; administrative updates bump Version and replace
// the whole snapshot, they never mutate one in place.
type AvailabilityConfig struct {
	ID         int64
	FacilityID int64
	Version    int64

	// Timezone is the IANA zone name all wall-clock rules are expressed in.
	Timezone string

	// WorkingHours maps a weekday to zero or more open intervals.
	WorkingHours map[time.Weekday][]MinuteInterval

	SlotDurationMinutes int
	BufferMinutes       int
	MinLeadTimeMinutes  int
	// MaxAdvanceDays limits how far ahead a slot may start. 0 = unlimited.
	MaxAdvanceDays int

	ExcludedRanges []ExcludedRange

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAdvanceLimit returns true if there is a limit on how far in advance
// bookings can be made.
func (c *AvailabilityConfig) HasAdvanceLimit() bool {
	return c.MaxAdvanceDays > 0
}

// IntervalsFor returns the working intervals for the given weekday.
func (c *AvailabilityConfig) IntervalsFor(day time.Weekday) []MinuteInterval {
	return c.WorkingHours[day]
}
