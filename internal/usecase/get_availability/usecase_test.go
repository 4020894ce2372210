package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Julianb233/appointment-service/internal/domain"
	availabilityRepo "github.com/Julianb233/appointment-service/internal/infra/storage/availability"
	bookingStore "github.com/Julianb233/appointment-service/internal/infra/storage/booking"
)

// --- Фейки ---

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (r *fakeBookingRepo) GetByFacilityWithFilter(_ context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.FacilityID != filter.FacilityID {
			continue
		}
		if filter.ActiveOnly && !b.IsActive() {
			continue
		}
		// та же семантика пересечения, что у SQL-репозитория:
		// starts_at < to AND ends_at > from
		if filter.From != nil && !b.End.After(*filter.From) {
			continue
		}
		if filter.To != nil && !b.Start.Before(*filter.To) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type fakeConfigRepo struct {
	cfg *domain.AvailabilityConfig
	err error
}

func (r *fakeConfigRepo) GetByFacility(_ context.Context, facilityID int64) (*domain.AvailabilityConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.cfg == nil || r.cfg.FacilityID != facilityID {
		return nil, availabilityRepo.ErrConfigNotFound
	}
	return r.cfg, nil
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

const testFacilityID = int64(10)

func testConfig() *domain.AvailabilityConfig {
	hours := make(map[time.Weekday][]domain.MinuteInterval)
	for day := time.Monday; day <= time.Friday; day++ {
		hours[day] = []domain.MinuteInterval{{StartMinute: 9 * 60, EndMinute: 17 * 60}}
	}
	return &domain.AvailabilityConfig{
		ID:                  1,
		FacilityID:          testFacilityID,
		Version:             3,
		Timezone:            "UTC",
		WorkingHours:        hours,
		SlotDurationMinutes: 30,
		BufferMinutes:       0,
		MinLeadTimeMinutes:  60,
		MaxAdvanceDays:      30,
	}
}

func newUseCase(repo *fakeBookingRepo, cfgRepo *fakeConfigRepo, now time.Time) *UseCase {
	uc := NewUseCase(repo, cfgRepo, nopLogger{})
	uc.timeProvider = &fixedClock{now: now}
	return uc
}

// --- Тесты ---

func TestExecute_MarksBookedSlots(t *testing.T) {
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:         1,
				FacilityID: testFacilityID,
				Start:      monday.Add(9*time.Hour + 30*time.Minute),
				End:        monday.Add(10 * time.Hour),
				Status:     domain.StatusConfirmed,
			},
		},
	}
	uc := newUseCase(repo, &fakeConfigRepo{cfg: testConfig()}, monday.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{
		FacilityID: testFacilityID,
		From:       monday.Add(9 * time.Hour),
		To:         monday.Add(10*time.Hour + 30*time.Minute),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.ConfigVersion)
	require.Len(t, resp.Slots, 3)
	assert.True(t, resp.Slots[0].Available)  // 09:00
	assert.False(t, resp.Slots[1].Available) // 09:30 занят
	assert.True(t, resp.Slots[2].Available)  // 10:00
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:         1,
				FacilityID: testFacilityID,
				Start:      monday.Add(9 * time.Hour),
				End:        monday.Add(9*time.Hour + 30*time.Minute),
				Status:     domain.StatusCancelled,
			},
		},
	}
	uc := newUseCase(repo, &fakeConfigRepo{cfg: testConfig()}, monday.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{
		FacilityID: testFacilityID,
		From:       monday.Add(9 * time.Hour),
		To:         monday.Add(10 * time.Hour),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.True(t, resp.Slots[0].Available)
	assert.True(t, resp.Slots[1].Available)
}

func TestExecute_BufferReachesOutsideQueryWindow(t *testing.T) {
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)

	// Бронирование заканчивается ровно на границе запрошенного периода.
	// С буфером 30 минут оно всё ещё блокирует первый слот периода,
	// поэтому снапшот должен захватывать и соседние бронирования
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:         1,
				FacilityID: testFacilityID,
				Start:      monday.Add(9 * time.Hour),
				End:        monday.Add(9*time.Hour + 30*time.Minute),
				Status:     domain.StatusConfirmed,
			},
		},
	}
	cfg := testConfig()
	cfg.BufferMinutes = 30
	uc := newUseCase(repo, &fakeConfigRepo{cfg: cfg}, monday.Add(8*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{
		FacilityID: testFacilityID,
		From:       monday.Add(9*time.Hour + 30*time.Minute),
		To:         monday.Add(10*time.Hour + 30*time.Minute),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.False(t, resp.Slots[0].Available) // 09:30 в буфере бронирования 09:00-09:30
	assert.True(t, resp.Slots[1].Available)  // 10:00 сразу за буфером
}

func TestExecute_RepeatedReadReturnsSameSlots(t *testing.T) {
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:         1,
				FacilityID: testFacilityID,
				Start:      monday.Add(9*time.Hour + 30*time.Minute),
				End:        monday.Add(10 * time.Hour),
				Status:     domain.StatusConfirmed,
			},
		},
	}
	uc := newUseCase(repo, &fakeConfigRepo{cfg: testConfig()}, monday.Add(8*time.Hour))

	req := &Request{
		FacilityID: testFacilityID,
		From:       monday.Add(9 * time.Hour),
		To:         monday.Add(11 * time.Hour),
	}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Чтение без записей между вызовами детерминировано
	assert.Equal(t, first, second)
}

func TestExecute_ConfigNotFound(t *testing.T) {
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)
	uc := newUseCase(&fakeBookingRepo{}, &fakeConfigRepo{}, monday)

	_, err := uc.Execute(context.Background(), &Request{
		FacilityID: testFacilityID,
		From:       monday.Add(9 * time.Hour),
		To:         monday.Add(10 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)
	uc := newUseCase(&fakeBookingRepo{}, &fakeConfigRepo{cfg: testConfig()}, monday)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "non-positive facility",
			req:     &Request{FacilityID: 0, From: monday, To: monday.Add(time.Hour)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing from",
			req:     &Request{FacilityID: testFacilityID, To: monday.Add(time.Hour)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "inverted range",
			req:     &Request{FacilityID: testFacilityID, From: monday.Add(time.Hour), To: monday},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "range too large",
			req:     &Request{FacilityID: testFacilityID, From: monday, To: monday.AddDate(0, 0, 93)},
			wantErr: ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_StoreUnavailable(t *testing.T) {
	monday := time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{err: bookingStore.ErrStoreUnavailable}
	uc := newUseCase(repo, &fakeConfigRepo{cfg: testConfig()}, monday.Add(8*time.Hour))

	_, err := uc.Execute(context.Background(), &Request{
		FacilityID: testFacilityID,
		From:       monday.Add(9 * time.Hour),
		To:         monday.Add(10 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
