package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/internal/schedule"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.NewStart.IsZero() {
		return fmt.Errorf("%w: newStart is required", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}

// validateSlotAlignment проверяет, что начало слота лежит на дневной сетке
// заведения и существует в его локальной зоне
func validateSlotAlignment(start time.Time, engine *schedule.RuleEngine) error {
	wc := schedule.ToWallClock(start, engine.Location())
	if wc.MinuteOfDay%engine.Config().SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: start %s is not on the slot grid", ErrInvalidTimeSlot, start.Format(time.RFC3339))
	}

	if _, err := schedule.ToInstant(wc, engine.Location()); err != nil {
		return fmt.Errorf("%w: start %s does not exist in facility timezone", ErrInvalidTimeSlot, start.Format(time.RFC3339))
	}

	return nil
}
