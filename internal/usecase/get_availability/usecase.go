package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
	configRepo "github.com/Julianb233/appointment-service/internal/infra/storage/availability"
	bookingRepo "github.com/Julianb233/appointment-service/internal/infra/storage/booking"
	"github.com/Julianb233/appointment-service/internal/schedule"
)

// UseCase use case для получения доступных слотов заведения.
// Чтение консультативное: снапшоты конфигурации и бронирований берутся
// без блокировок, авторитативная проверка выполняется при создании
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: facility=%d, from=%s, to=%s",
		req.FacilityID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Загружаем снапшот конфигурации заведения
	cfg, err := uc.configRepo.GetByFacility(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetAvailability: config not found for facility=%d", req.FacilityID)
			return nil, ErrConfigNotFound
		}
		if errors.Is(err, configRepo.ErrStoreUnavailable) {
			uc.logger.Error("GetAvailability: store unavailable for facility=%d: %v", req.FacilityID, err)
			return nil, fmt.Errorf("%w: failed to get config: %v", ErrStoreUnavailable, err)
		}
		uc.logger.Error("GetAvailability: failed to get config for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// 4. Строим rule engine по снапшоту
	engine, err := schedule.NewRuleEngine(cfg)
	if err != nil {
		uc.logger.Error("GetAvailability: invalid config for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: invalid config: %v", ErrInternal, err)
	}

	// 5. Генерируем кандидатов по правилам заведения
	candidates := engine.GenerateSlots(req.From.UTC(), req.To.UTC(), now)

	// 6. Берём снапшот активных бронирований за период.
	// Окно расширено на буфер с обеих сторон, как при создании:
	// бронирование сразу за границей периода всё ещё блокирует крайний слот
	buffer := time.Duration(cfg.BufferMinutes) * time.Minute
	from := req.From.UTC().Add(-buffer)
	to := req.To.UTC().Add(buffer)
	filter := domain.FacilityBookingsFilter{
		FacilityID: req.FacilityID,
		From:       &from,
		To:         &to,
		ActiveOnly: true,
	}
	bookings, err := uc.bookingRepo.GetByFacilityWithFilter(ctx, filter)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
			uc.logger.Error("GetAvailability: store unavailable for facility=%d: %v", req.FacilityID, err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrStoreUnavailable, err)
		}
		uc.logger.Error("GetAvailability: failed to get bookings for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Отмечаем занятость с учётом буфера
	marked := schedule.FilterAvailable(candidates, bookings, cfg.BufferMinutes)

	slots := make([]Slot, len(marked))
	for i, s := range marked {
		slots[i] = Slot{
			Start:     s.Start,
			End:       s.End,
			Available: s.Available,
		}
	}

	uc.logger.Info("GetAvailability: generated %d slots for facility=%d (config version=%d)",
		len(slots), req.FacilityID, cfg.Version)

	return &Response{
		FacilityID:    req.FacilityID,
		From:          req.From,
		To:            req.To,
		ConfigVersion: cfg.Version,
		Slots:         slots,
	}, nil
}
