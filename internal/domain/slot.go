package domain

import "time"

// TimeSlot is a candidate appointment window. Pure value, never persisted:
// End = Start + the configuration's slot duration at generation time.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open slots intersect.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// AvailabilitySlot is a TimeSlot annotated with the advisory conflict-check
// result. Returned to callers, never persisted.
type AvailabilitySlot struct {
	TimeSlot
	Available bool
}
