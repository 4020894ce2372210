package bookings

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/internal/infra/notify"
	bookingStore "github.com/Julianb233/appointment-service/internal/infra/storage/booking"
	"github.com/Julianb233/appointment-service/internal/service/bookings/models"
	"github.com/Julianb233/appointment-service/pkg/ptr"
)

// --- Фейки ---

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
	nextID   int64

	getErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
}

func (r *fakeBookingRepo) add(b *domain.Booking) *domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *b
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.bookings[stored.ID] = &stored
	result := stored
	return &result
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingStore.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByFacilityWithFilter(_ context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.FacilityID != filter.FacilityID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && filter.ActiveOnly && !b.IsActive() {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingStore.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingStore.ErrBookingNotFound
	}
	now := time.Now().UTC()
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// fakeTxManager сериализует транзакции мьютексом, имитируя блокировку
// строки при чтении внутри транзакции
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.TemplateKind
}

func (n *fakeNotifier) Notify(_ *domain.Booking, template notify.TemplateKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, template)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

const testFacilityID = int64(10)

type fixture struct {
	svc      *Service
	repo     *fakeBookingRepo
	notifier *fakeNotifier
}

func newFixture() *fixture {
	repo := newFakeBookingRepo()
	notifier := &fakeNotifier{}
	return &fixture{
		svc:      NewService(repo, &fakeTxManager{}, notifier, nopLogger{}),
		repo:     repo,
		notifier: notifier,
	}
}

func (f *fixture) seedBooking(status domain.BookingStatus) *domain.Booking {
	start := time.Date(2026, time.January, 26, 10, 0, 0, 0, time.UTC)
	return f.repo.add(&domain.Booking{
		FacilityID: testFacilityID,
		Start:      start,
		End:        start.Add(30 * time.Minute),
		Status:     status,
		Customer: domain.CustomerContact{
			Name:  "Иван Петров",
			Email: "ivan@example.com",
		},
		ServiceType: "consultation",
	})
}

// --- Тесты ---

func TestGetByID(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusConfirmed)

	resp, err := f.svc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	_, err = f.svc.GetByID(context.Background(), 777)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusConfirmed)

	resp, err := f.svc.Cancel(context.Background(), booking.ID, &models.CancelBookingRequest{Reason: "передумал"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, []notify.TemplateKind{notify.TemplateCancellation}, f.notifier.events)
}

func TestCancel_Twice(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusConfirmed)

	_, err := f.svc.Cancel(context.Background(), booking.ID, &models.CancelBookingRequest{})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), booking.ID, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
	// Уведомление ушло только для первой отмены.
	assert.Len(t, f.notifier.events, 1)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusConfirmed)

	req := &models.CancelBookingRequest{Reason: strings.Repeat("a", domain.MaxReasonLength+1)}
	_, err := f.svc.Cancel(context.Background(), booking.ID, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusPending)

	resp, err := f.svc.UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	resp, err = f.svc.UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)

	// Из терминального статуса переходов нет.
	_, err = f.svc.UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusPending)

	// pending -> completed запрещён, нужно сначала подтвердить.
	_, err := f.svc.UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusPending)

	_, err := f.svc.UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{Status: "postponed"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_ConcurrentTerminalWrites(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusConfirmed)

	// Отмена и завершение наперегонки: терминальный статус поглощает,
	// проигравший запрос не перезаписывает его
	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.Cancel(context.Background(), booking.ID, &models.CancelBookingRequest{})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{Status: "completed"})
	}()
	wg.Wait()

	var okCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyTerminal)
		}
	}
	assert.Equal(t, 1, okCount)

	// Статус остался тем, что записал победитель.
	final, err := f.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.True(t, final.IsTerminal())
	if errs[0] == nil {
		assert.Equal(t, domain.StatusCancelled, final.Status)
	} else {
		assert.Equal(t, domain.StatusCompleted, final.Status)
	}
}

func TestUpdateStatus_CancellationNotifies(t *testing.T) {
	f := newFixture()
	booking := f.seedBooking(domain.StatusConfirmed)

	_, err := f.svc.UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, []notify.TemplateKind{notify.TemplateCancellation}, f.notifier.events)

	// Завершение не триггерит уведомлений.
	other := f.seedBooking(domain.StatusConfirmed)
	_, err = f.svc.UpdateStatus(context.Background(), other.ID, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Len(t, f.notifier.events, 1)
}

func TestGetFacilityBookings(t *testing.T) {
	f := newFixture()
	f.seedBooking(domain.StatusConfirmed)
	f.seedBooking(domain.StatusPending)
	f.seedBooking(domain.StatusCancelled)

	// По умолчанию возвращаются только активные.
	resp, err := f.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		FacilityID: testFacilityID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	// IncludeInactive добавляет отменённые.
	resp, err = f.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		FacilityID:      testFacilityID,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)

	// Фильтр по статусу сужает выборку.
	resp, err = f.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		FacilityID: testFacilityID,
		Status:     ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestGetFacilityBookings_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{FacilityID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	from := time.Date(2026, time.January, 26, 12, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	_, err = f.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		FacilityID: testFacilityID,
		From:       &from,
		To:         &to,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		FacilityID: testFacilityID,
		Status:     ptr.Ptr("postponed"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStoreUnavailableMapped(t *testing.T) {
	f := newFixture()
	f.repo.getErr = bookingStore.ErrStoreUnavailable

	_, err := f.svc.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
