package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/internal/schedule"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	if req.Customer.Email == "" && req.Customer.Phone == "" {
		return fmt.Errorf("%w: customer email or phone is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSlotAlignment проверяет, что начало слота лежит на дневной сетке
// заведения: минута локального дня кратна длительности слота
func validateSlotAlignment(start time.Time, engine *schedule.RuleEngine) error {
	wc := schedule.ToWallClock(start, engine.Location())
	if wc.MinuteOfDay%engine.Config().SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: start %s is not on the slot grid", ErrInvalidTimeSlot, start.Format(time.RFC3339))
	}

	// Начало должно существовать в локальной зоне (не попадать в DST-провал)
	if _, err := schedule.ToInstant(wc, engine.Location()); err != nil {
		return fmt.Errorf("%w: start %s does not exist in facility timezone", ErrInvalidTimeSlot, start.Format(time.RFC3339))
	}

	return nil
}
