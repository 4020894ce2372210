package availability

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у заведения нет конфигурации
	ErrConfigNotFound = errors.New("availability config not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище временно недоступно
	ErrStoreUnavailable = errors.New("store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
