package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// CustomerContact identifies the person the appointment is booked for.
// The scheduling service does not own user identity, contact details are
// captured verbatim on each booking.
type CustomerContact struct {
	Name  string
	Email string
	Phone string
}

// Booking represents a scheduled appointment in a facility calendar.
// Start and End are UTC instants produced by the schedule normalizer.
// Bookings are never hard-deleted, cancellation is a status transition.
type Booking struct {
	ID         int64
	FacilityID int64
	Start      time.Time
	End        time.Time
	Status     BookingStatus

	Customer    CustomerContact
	ServiceType string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies calendar time. Only active
// bookings participate in overlap checks.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are allowed.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking can still be cancelled.
func (b *Booking) CanBeCancelled() bool {
	return b.IsActive()
}

// CanBeRescheduled returns true if the booking can be moved to another slot.
func (b *Booking) CanBeRescheduled() bool {
	return b.IsActive()
}

// CanTransitionTo validates the lifecycle state machine:
//
//	pending   -> confirmed | cancelled
//	confirmed -> cancelled | completed | no_show
//
// Terminal states (cancelled, completed, no_show) absorb.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted || next == StatusNoShow
	default:
		return false
	}
}

// FacilityBookingsFilter is the filter for facility calendar queries.
type FacilityBookingsFilter struct {
	FacilityID int64      // required
	From       *time.Time // range start (instant), optional
	To         *time.Time // range end (instant), optional
	Status     *BookingStatus
	// ActiveOnly restricts the result to pending/confirmed bookings, the
	// ones that block calendar time. Ignored when Status is set.
	ActiveOnly bool
	// ForUpdate locks the selected rows; only honored inside a transaction.
	ForUpdate bool
}
