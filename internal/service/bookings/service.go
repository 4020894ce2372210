package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/internal/infra/notify"
	bookingRepo "github.com/Julianb233/appointment-service/internal/infra/storage/booking"
	"github.com/Julianb233/appointment-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TxManager
	notifier    Notifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TxManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetFacilityBookings получает бронирования площадки с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных бронирований
//
// Примеры использования:
// - Все активные бронирования: GetFacilityBookings(ctx, &GetFacilityBookingsRequest{FacilityID: 123})
// - Бронирования за период: указать From и To
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetFacilityBookings(ctx context.Context, req *models.GetFacilityBookingsRequest) (*models.BookingListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetFacilityBookings: fetching bookings for facility=%d", req.FacilityID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if req.FacilityID <= 0 {
		s.logger.Warn("GetFacilityBookings: invalid facility id=%d", req.FacilityID)
		return nil, fmt.Errorf("%w: facility id must be positive", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("GetFacilityBookings: invalid period for facility=%d", req.FacilityID)
		return nil, fmt.Errorf("%w: 'from' must be before 'to'", ErrInvalidInput)
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetFacilityBookings: invalid filter for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: invalid status filter", ErrInvalidInput)
	}

	// Получаем бронирования с фильтрацией
	list, err := s.bookingRepo.GetByFacilityWithFilter(ctx, filter)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStoreUnavailable) {
			s.logger.Error("GetFacilityBookings: store unavailable for facility=%d: %v", req.FacilityID, err)
			return nil, fmt.Errorf("%w: GetFacilityBookings: %v", ErrStoreUnavailable, err)
		}
		s.logger.Error("GetFacilityBookings: repository error for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: GetFacilityBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetFacilityBookings: successfully fetched %d bookings for facility=%d", len(list), req.FacilityID)
	return models.FromDomainBookingList(list), nil
}

// Cancel отменяет бронирование
// Повторная отмена и отмена завершённых бронирований отклоняются
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	if len(req.Reason) > domain.MaxReasonLength {
		s.logger.Warn("Cancel: reason too long for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	// Проверка и отмена атомарны: бронирование читается с блокировкой
	// строки, конкурирующая смена статуса не проскочит между ними
	var cancelled *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("Cancel", bookingID, err)
		}

		// Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrAlreadyTerminal
		}

		// Отменяем бронирование
		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.Reason); err != nil {
			return s.mapRepoError("Cancel", bookingID, err)
		}

		// Перечитываем, чтобы вернуть актуальные cancelled_at / updated_at
		cancelled, err = s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("Cancel", bookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Уведомление об отмене уходит fire-and-forget
	s.notifier.Notify(cancelled, notify.TemplateCancellation)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(cancelled), nil
}

// UpdateStatus обновляет статус бронирования по правилам жизненного цикла:
//
//	pending   -> confirmed | cancelled
//	confirmed -> cancelled | completed | no_show
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, req.Status)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	// Проверка перехода и запись атомарны: строка читается с блокировкой,
	// терминальный статус не может быть перезаписан конкурентным запросом
	var updated *domain.Booking
	txErr := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("UpdateStatus", bookingID, err)
		}

		// Проверяем переход по state machine
		if !booking.CanTransitionTo(newStatus) {
			if booking.IsTerminal() {
				s.logger.Warn("UpdateStatus: booking id=%d is terminal, status=%s", bookingID, booking.Status)
				return ErrAlreadyTerminal
			}
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d",
				booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		// Обновляем статус
		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus); err != nil {
			return s.mapRepoError("UpdateStatus", bookingID, err)
		}

		updated, err = s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("UpdateStatus", bookingID, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Отмена через смену статуса тоже триггерит уведомление
	if newStatus == domain.StatusCancelled {
		s.notifier.Notify(updated, notify.TemplateCancellation)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(updated), nil
}

// mapRepoError конвертирует ошибки репозитория в сервисные
func (s *Service) mapRepoError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStoreUnavailable):
		s.logger.Error("%s: store unavailable for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
