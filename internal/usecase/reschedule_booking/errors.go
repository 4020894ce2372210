package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAlreadyTerminal возвращается при попытке перенести бронирование
	// в терминальном статусе
	ErrAlreadyTerminal = errors.New("reschedule_booking: booking is already in a terminal status")

	// ErrConfigNotFound возвращается, когда у заведения нет конфигурации доступности
	ErrConfigNotFound = errors.New("reschedule_booking: availability config not found")

	// ErrSlotNotAvailable возвращается, когда новый слот уже занят
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время нового слота некорректно
	ErrInvalidTimeSlot = errors.New("reschedule_booking: invalid time slot")

	// ErrSameSlot возвращается, когда новый слот совпадает с текущим
	ErrSameSlot = errors.New("reschedule_booking: new slot equals the current one")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище временно недоступно
	ErrStoreUnavailable = errors.New("reschedule_booking: store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
