package create_booking

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у заведения нет конфигурации доступности
	ErrConfigNotFound = errors.New("create_booking: availability config not found")

	// ErrSlotNotAvailable возвращается, когда выбранный слот уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время слота некорректно
	// (не выровнено по сетке слотов или не существует в локальной зоне)
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище временно недоступно
	ErrStoreUnavailable = errors.New("create_booking: store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
