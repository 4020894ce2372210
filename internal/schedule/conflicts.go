package schedule

import (
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
)

// Buffer policy: the buffer is a gap requirement between bookings. Each
// existing active booking's interval is expanded by the full bufferMinutes
// on both sides before the half-open overlap test; candidate slots are not
// expanded. A booking ending exactly where a slot starts conflicts only
// when bufferMinutes > 0.

// BufferedOverlap reports whether the candidate slot overlaps the booking's
// buffer-expanded interval. Non-active bookings never conflict.
func BufferedOverlap(candidate domain.TimeSlot, booking *domain.Booking, bufferMinutes int) bool {
	if !booking.IsActive() {
		return false
	}

	buffer := time.Duration(bufferMinutes) * time.Minute
	busyStart := booking.Start.Add(-buffer)
	busyEnd := booking.End.Add(buffer)

	// Полуоткрытые интервалы: [a,b) пересекается с [c,d) <=> a < d && c < b.
	return candidate.Start.Before(busyEnd) && busyStart.Before(candidate.End)
}

// FilterAvailable annotates candidate slots with the advisory conflict-check
// result against a snapshot of existing bookings. The snapshot may be stale
// by the time the caller books: the authoritative check is re-run inside
// the booking transaction, this one is for display only.
func FilterAvailable(candidates []domain.TimeSlot, bookings []*domain.Booking, bufferMinutes int) []domain.AvailabilitySlot {
	result := make([]domain.AvailabilitySlot, len(candidates))

	for i, slot := range candidates {
		result[i] = domain.AvailabilitySlot{
			TimeSlot:  slot,
			Available: IsSlotFree(slot, bookings, bufferMinutes, 0),
		}
	}

	return result
}

// IsSlotFree reports whether the slot conflicts with none of the given
// bookings. excludeID skips one booking (the one being rescheduled);
// 0 excludes nothing. Run against rows selected FOR UPDATE inside a
// serializable transaction, this is the enforcement point of the
// no-overlap invariant.
func IsSlotFree(slot domain.TimeSlot, bookings []*domain.Booking, bufferMinutes int, excludeID int64) bool {
	for _, b := range bookings {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if BufferedOverlap(slot, b, bufferMinutes) {
			return false
		}
	}
	return true
}
