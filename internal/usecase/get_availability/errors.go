package get_availability

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у заведения нет конфигурации доступности
	ErrConfigNotFound = errors.New("availability config not found")

	// ErrInvalidRange возвращается при некорректном диапазоне запроса
	ErrInvalidRange = errors.New("invalid availability range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище временно недоступно
	ErrStoreUnavailable = errors.New("store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
