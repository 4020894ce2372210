package get_availability

import (
	"fmt"
	"time"
)

// maxRangeDays ограничивает размер запрашиваемого окна, чтобы один запрос
// не генерировал слоты на годы вперёд
const maxRangeDays = 92

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: 'from' and 'to' are required", ErrInvalidInput)
	}

	if !req.From.Before(req.To) {
		return fmt.Errorf("%w: 'from' must be before 'to'", ErrInvalidRange)
	}

	if req.To.Sub(req.From) > maxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidRange, maxRangeDays)
	}

	return nil
}
