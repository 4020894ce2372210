package availability

import (
	"context"

	"github.com/Julianb233/appointment-service/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации доступности
type ConfigRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.AvailabilityConfig, error)
	Upsert(ctx context.Context, cfg *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
