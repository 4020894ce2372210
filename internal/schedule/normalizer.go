package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeInput возвращается, когда wall-clock время не существует в
// заданной зоне (пропущенный час при переходе на летнее время) либо выходит
// за границы суток. Такие значения отклоняются, а не сдвигаются молча.
var ErrInvalidTimeInput = errors.New("schedule: invalid time input")

// WallClock is a calendar date plus minutes since local midnight, with no
// zone attached. The zone is always an explicit parameter of the conversion,
// never an ambient process default.
type WallClock struct {
	Year        int
	Month       time.Month
	Day         int
	MinuteOfDay int
}

// ToInstant converts a wall clock in loc to an instant. Fails with
// ErrInvalidTimeInput when the wall clock does not exist in loc.
func ToInstant(wc WallClock, loc *time.Location) (time.Time, error) {
	if wc.MinuteOfDay < 0 || wc.MinuteOfDay >= 24*60 {
		return time.Time{}, fmt.Errorf("%w: minute of day %d", ErrInvalidTimeInput, wc.MinuteOfDay)
	}

	t := time.Date(wc.Year, wc.Month, wc.Day, wc.MinuteOfDay/60, wc.MinuteOfDay%60, 0, 0, loc)

	// time.Date нормализует несуществующее время, сдвигая его через разрыв
	// перевода часов. Обратная конвертация выявляет такой сдвиг.
	if back := ToWallClock(t, loc); back != wc {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d does not exist in %s",
			ErrInvalidTimeInput, wc.Year, wc.Month, wc.Day, wc.MinuteOfDay/60, wc.MinuteOfDay%60, loc)
	}

	return t.UTC(), nil
}

// ToWallClock converts an instant to the wall clock observed in loc.
func ToWallClock(t time.Time, loc *time.Location) WallClock {
	local := t.In(loc)
	return WallClock{
		Year:        local.Year(),
		Month:       local.Month(),
		Day:         local.Day(),
		MinuteOfDay: local.Hour()*60 + local.Minute(),
	}
}

// DateOf strips the time-of-day part, keeping the calendar date in loc.
func DateOf(t time.Time, loc *time.Location) (year int, month time.Month, day int) {
	local := t.In(loc)
	return local.Year(), local.Month(), local.Day()
}
