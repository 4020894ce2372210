package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/internal/infra/notify"
	configRepo "github.com/Julianb233/appointment-service/internal/infra/storage/availability"
	bookingRepo "github.com/Julianb233/appointment-service/internal/infra/storage/booking"
	"github.com/Julianb233/appointment-service/internal/schedule"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка доступности и вставка выполняются в одной сериализуемой
// транзакции с блокировкой пересекающихся строк, поэтому из двух
// конкурентных запросов на один слот выигрывает ровно один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: facility=%d, start=%s, customer=%s",
		req.FacilityID, req.Start.Format(time.RFC3339), req.Customer.Name)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Переменная для хранения результата
	var result *domain.Booking

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Загружаем снапшот конфигурации заведения
		cfg, err := uc.configRepo.GetByFacility(txCtx, req.FacilityID)
		if err != nil {
			if errors.Is(err, configRepo.ErrConfigNotFound) {
				uc.logger.Warn("CreateBooking: config not found for facility=%d", req.FacilityID)
				return ErrConfigNotFound
			}
			uc.logger.Error("CreateBooking: failed to get config for facility=%d: %v", req.FacilityID, err)
			if errors.Is(err, configRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		uc.logger.Info("CreateBooking: using config id=%d version=%d", cfg.ID, cfg.Version)

		// 3.2. Строим rule engine по снапшоту
		engine, err := schedule.NewRuleEngine(cfg)
		if err != nil {
			uc.logger.Error("CreateBooking: invalid config for facility=%d: %v", req.FacilityID, err)
			return fmt.Errorf("%w: invalid config: %v", ErrInternal, err)
		}

		// 3.3. Проверяем выравнивание начала по сетке слотов
		if err := validateSlotAlignment(req.Start, engine); err != nil {
			uc.logger.Warn("CreateBooking: slot alignment failed: %v", err)
			return err
		}

		slot := domain.TimeSlot{
			Start: req.Start.UTC(),
			End:   req.Start.UTC().Add(engine.SlotDuration()),
		}

		// 3.4. Проверяем слот правилами заведения; нарушение уходит
		// наружу как типизированная ошибка
		if violation := engine.IsBookable(slot, now); violation != nil {
			uc.logger.Warn("CreateBooking: slot rejected by rules: %v", violation)
			return violation
		}

		// 3.5. Берём пересекающиеся активные бронирования с блокировкой
		// (FOR UPDATE); окно расширено на буфер с обеих сторон
		buffer := time.Duration(cfg.BufferMinutes) * time.Minute
		from := slot.Start.Add(-buffer)
		to := slot.End.Add(buffer)
		filter := domain.FacilityBookingsFilter{
			FacilityID: req.FacilityID,
			From:       &from,
			To:         &to,
			ActiveOnly: true,
			ForUpdate:  true,
		}

		existing, err := uc.bookingRepo.GetByFacilityWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 3.6. Авторитативная проверка занятости внутри транзакции
		if !schedule.IsSlotFree(slot, existing, cfg.BufferMinutes, 0) {
			uc.logger.Warn("CreateBooking: slot %s is taken for facility=%d",
				slot.Start.Format(time.RFC3339), req.FacilityID)
			return ErrSlotNotAvailable
		}

		// 3.7. Создаем бронирование
		booking := &domain.Booking{
			FacilityID: req.FacilityID,
			Start:      slot.Start,
			End:        slot.End,
			Status:     domain.StatusConfirmed,
			Customer: domain.CustomerContact{
				Name:  req.Customer.Name,
				Email: req.Customer.Email,
				Phone: req.Customer.Phone,
			},
			ServiceType: req.ServiceType,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, bookingRepo.ErrStoreUnavailable) || errors.Is(err, configRepo.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// Уведомление о подтверждении уходит после коммита, fire-and-forget
	uc.notifier.Notify(result, notify.TemplateConfirmation)

	// Конвертируем в response
	return &Response{
		ID:         result.ID,
		FacilityID: result.FacilityID,
		Start:      result.Start,
		End:        result.End,
		Status:     string(result.Status),
		Customer: Customer{
			Name:  result.Customer.Name,
			Email: result.Customer.Email,
			Phone: result.Customer.Phone,
		},
		ServiceType: result.ServiceType,
		Notes:       result.Notes,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}
