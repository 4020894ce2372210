package reschedule_booking

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

const defaultRescheduleReason = "rescheduled"

// UseCase use case для переноса бронирования на другой слот.
// Перенос - это отмена старого бронирования и создание нового в одной
// сериализуемой транзакции: либо применяются оба изменения, либо ни одного
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

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, newStart=%s",
		req.BookingID, req.NewStart.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Booking
	var previousID int64

	// 3. Отмена и создание в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d cannot be rescheduled, status=%s",
				req.BookingID, booking.Status)
			return ErrAlreadyTerminal
		}

		if booking.Start.Equal(req.NewStart.UTC()) {
			uc.logger.Warn("RescheduleBooking: booking id=%d already starts at %s",
				req.BookingID, req.NewStart.Format(time.RFC3339))
			return ErrSameSlot
		}

		// 3.2. Загружаем снапшот конфигурации заведения
		cfg, err := uc.configRepo.GetByFacility(txCtx, booking.FacilityID)
		if err != nil {
			if errors.Is(err, configRepo.ErrConfigNotFound) {
				uc.logger.Warn("RescheduleBooking: config not found for facility=%d", booking.FacilityID)
				return ErrConfigNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get config for facility=%d: %v", booking.FacilityID, err)
			if errors.Is(err, configRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}

		engine, err := schedule.NewRuleEngine(cfg)
		if err != nil {
			uc.logger.Error("RescheduleBooking: invalid config for facility=%d: %v", booking.FacilityID, err)
			return fmt.Errorf("%w: invalid config: %v", ErrInternal, err)
		}

		// 3.3. Проверяем выравнивание нового начала по сетке слотов
		if err := validateSlotAlignment(req.NewStart, engine); err != nil {
			uc.logger.Warn("RescheduleBooking: slot alignment failed: %v", err)
			return err
		}

		slot := domain.TimeSlot{
			Start: req.NewStart.UTC(),
			End:   req.NewStart.UTC().Add(engine.SlotDuration()),
		}

		// 3.4. Новый слот проверяется теми же правилами, что и создание
		if violation := engine.IsBookable(slot, now); violation != nil {
			uc.logger.Warn("RescheduleBooking: slot rejected by rules: %v", violation)
			return violation
		}

		// 3.5. Отменяем старое бронирование, чтобы оно не участвовало
		// в проверке занятости нового слота
		reason := req.Reason
		if reason == "" {
			reason = defaultRescheduleReason
		}
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, reason); err != nil {
			uc.logger.Error("RescheduleBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// 3.6. Берём пересекающиеся активные бронирования с блокировкой
		buffer := time.Duration(cfg.BufferMinutes) * time.Minute
		from := slot.Start.Add(-buffer)
		to := slot.End.Add(buffer)
		filter := domain.FacilityBookingsFilter{
			FacilityID: booking.FacilityID,
			From:       &from,
			To:         &to,
			ActiveOnly: true,
			ForUpdate:  true,
		}

		existing, err := uc.bookingRepo.GetByFacilityWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
			if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 3.7. Авторитативная проверка занятости; старое бронирование
		// исключается из рассмотрения на случай отстающего снапшота
		if !schedule.IsSlotFree(slot, existing, cfg.BufferMinutes, booking.ID) {
			uc.logger.Warn("RescheduleBooking: slot %s is taken for facility=%d",
				slot.Start.Format(time.RFC3339), booking.FacilityID)
			return ErrSlotNotAvailable
		}

		// 3.8. Создаем новое бронирование с теми же данными клиента
		replacement := &domain.Booking{
			FacilityID:  booking.FacilityID,
			Start:       slot.Start,
			End:         slot.End,
			Status:      domain.StatusConfirmed,
			Customer:    booking.Customer,
			ServiceType: booking.ServiceType,
			Notes:       booking.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, replacement)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to create booking: %v", err)
			if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
				return err
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		previousID = booking.ID
		return nil
	})

	if err != nil {
		if errors.Is(err, bookingRepo.ErrStoreUnavailable) || errors.Is(err, configRepo.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d rescheduled to id=%d", previousID, result.ID)

	// Клиент получает подтверждение нового слота после коммита
	uc.notifier.Notify(result, notify.TemplateConfirmation)

	return &Response{
		ID:                result.ID,
		FacilityID:        result.FacilityID,
		Start:             result.Start,
		End:               result.End,
		Status:            string(result.Status),
		PreviousBookingID: previousID,
		CreatedAt:         result.CreatedAt,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}
