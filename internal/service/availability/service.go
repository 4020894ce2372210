package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
	configRepo "github.com/Julianb233/appointment-service/internal/infra/storage/availability"
	"github.com/Julianb233/appointment-service/internal/service/availability/models"
)

// Service сервис для работы с конфигурацией доступности заведений
type Service struct {
	configRepo ConfigRepository
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		configRepo: configRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetFacilityConfig получает конфигурацию заведения
func (s *Service) GetFacilityConfig(ctx context.Context, facilityID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetFacilityConfig: fetching config for facility=%d", facilityID)

	if facilityID <= 0 {
		s.logger.Warn("GetFacilityConfig: invalid facility id=%d", facilityID)
		return nil, fmt.Errorf("%w: facility id must be positive", ErrInvalidInput)
	}

	cfg, err := s.configRepo.GetByFacility(ctx, facilityID)
	if err != nil {
		return nil, s.mapRepoError("GetFacilityConfig", facilityID, err)
	}

	s.logger.Info("GetFacilityConfig: successfully fetched config id=%d version=%d for facility=%d",
		cfg.ID, cfg.Version, facilityID)
	return models.FromDomainConfig(cfg), nil
}

// UpdateFacilityConfig полностью заменяет конфигурацию заведения.
// Рабочие часы и исключения пишутся одной транзакцией вместе с новой
// версией снапшота, поэтому читатели видят либо старую версию целиком,
// либо новую целиком
func (s *Service) UpdateFacilityConfig(ctx context.Context, facilityID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpdateFacilityConfig: updating config for facility=%d", facilityID)

	if facilityID <= 0 {
		s.logger.Warn("UpdateFacilityConfig: invalid facility id=%d", facilityID)
		return nil, fmt.Errorf("%w: facility id must be positive", ErrInvalidInput)
	}

	// 1. Конвертируем payload в domain снапшот
	cfg, err := req.ToDomainConfig(facilityID)
	if err != nil {
		s.logger.Warn("UpdateFacilityConfig: invalid payload for facility=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Валидируем параметры конфигурации
	if err := s.validateConfig(cfg); err != nil {
		s.logger.Warn("UpdateFacilityConfig: validation failed for facility=%d: %v", facilityID, err)
		return nil, err
	}

	// 3. Сохраняем новую версию снапшота транзакционно
	var saved *domain.AvailabilityConfig
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		var txErr error
		saved, txErr = s.configRepo.Upsert(ctx, cfg)
		return txErr
	})
	if err != nil {
		return nil, s.mapRepoError("UpdateFacilityConfig", facilityID, err)
	}

	s.logger.Info("UpdateFacilityConfig: successfully saved config id=%d version=%d for facility=%d",
		saved.ID, saved.Version, facilityID)
	return models.FromDomainConfig(saved), nil
}

// validateConfig валидирует границы параметров и согласованность интервалов
func (s *Service) validateConfig(cfg *domain.AvailabilityConfig) error {
	// Таймзона должна быть валидным именем IANA
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, cfg.Timezone)
	}

	if cfg.SlotDurationMinutes < domain.MinSlotDurationMinutes || cfg.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if cfg.BufferMinutes < domain.MinBufferMinutes || cfg.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if cfg.MinLeadTimeMinutes < domain.MinLeadTimeMinutes || cfg.MinLeadTimeMinutes > domain.MaxLeadTimeMinutes {
		return fmt.Errorf("%w: minLeadTimeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinLeadTimeMinutes, domain.MaxLeadTimeMinutes)
	}
	if cfg.MaxAdvanceDays < domain.MinAdvanceDays || cfg.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: maxAdvanceDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceDays, domain.MaxAdvanceDays)
	}

	// Интервалы рабочих часов: границы валидны и не пересекаются внутри дня
	for weekday, intervals := range cfg.WorkingHours {
		for i, iv := range intervals {
			if iv.StartMinute < 0 || iv.EndMinute > domain.MinutesPerDay {
				return fmt.Errorf("%w: %s interval out of day bounds", ErrInvalidInput, weekday)
			}
			if iv.StartMinute >= iv.EndMinute {
				return fmt.Errorf("%w: %s interval start must be before end", ErrInvalidInput, weekday)
			}
			// Интервалы отсортированы по StartMinute при конвертации
			if i > 0 && intervals[i-1].EndMinute > iv.StartMinute {
				return fmt.Errorf("%w: %s intervals overlap", ErrInvalidInput, weekday)
			}
		}
	}

	for _, er := range cfg.ExcludedRanges {
		if !er.StartsAt.Before(er.EndsAt) {
			return fmt.Errorf("%w: excluded range start must be before end", ErrInvalidInput)
		}
	}

	return nil
}

// mapRepoError конвертирует ошибки репозитория в сервисные
func (s *Service) mapRepoError(op string, facilityID int64, err error) error {
	switch {
	case errors.Is(err, configRepo.ErrConfigNotFound):
		s.logger.Warn("%s: config not found for facility=%d", op, facilityID)
		return ErrConfigNotFound
	case errors.Is(err, configRepo.ErrStoreUnavailable):
		s.logger.Error("%s: store unavailable for facility=%d: %v", op, facilityID, err)
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	default:
		s.logger.Error("%s: repository error for facility=%d: %v", op, facilityID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
