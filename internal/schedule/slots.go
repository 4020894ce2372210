package schedule

import (
	"errors"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
)

// GenerateSlots walks [rangeStart, rangeEnd) and emits the ascending,
// deduplicated sequence of legal slots. Candidate start times run at a fixed
// SlotDurationMinutes stride anchored at the start of each day in the
// facility zone, not at rangeStart itself, so slot boundaries are stable
// regardless of the query window. Cost is O(range / slot duration).
func (e *RuleEngine) GenerateSlots(rangeStart, rangeEnd, now time.Time) []domain.TimeSlot {
	if !rangeEnd.After(rangeStart) {
		return []domain.TimeSlot{}
	}

	strideMinutes := e.cfg.SlotDurationMinutes
	if strideMinutes <= 0 {
		return []domain.TimeSlot{}
	}
	duration := e.SlotDuration()

	slots := make([]domain.TimeSlot, 0)

	// Курсор по календарным датам в зоне заведения.
	y, m, d := DateOf(rangeStart, e.loc)
	day := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)

	for {
		cy, cm, cd := day.Date()

		// Дальше rangeEnd дней нет - самая ранняя возможная точка дня
		// уже за границей окна.
		dayStart := time.Date(cy, cm, cd, 0, 0, 0, 0, e.loc)
		if !dayStart.Before(rangeEnd) {
			break
		}

		for minute := 0; minute+strideMinutes <= domain.MinutesPerDay; minute += strideMinutes {
			start, err := ToInstant(WallClock{Year: cy, Month: cm, Day: cd, MinuteOfDay: minute}, e.loc)
			if err != nil {
				// Несуществующее wall-clock время (разрыв перевода часов)
				// просто пропускается, без сдвига.
				if errors.Is(err, ErrInvalidTimeInput) {
					continue
				}
				continue
			}

			slot := domain.TimeSlot{Start: start, End: start.Add(duration)}

			if slot.Start.Before(rangeStart) {
				continue
			}
			if slot.End.After(rangeEnd) {
				continue
			}

			if e.IsBookable(slot, now) == nil {
				slots = append(slots, slot)
			}
		}

		day = day.AddDate(0, 0, 1)
	}

	return slots
}
