package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Julianb233/appointment-service/internal/domain"
	availabilityRepo "github.com/Julianb233/appointment-service/internal/infra/storage/availability"
	"github.com/Julianb233/appointment-service/internal/service/availability/models"
	"github.com/Julianb233/appointment-service/pkg/ptr"
)

// --- Фейки ---

type fakeConfigRepo struct {
	configs map[int64]*domain.AvailabilityConfig
	err     error
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[int64]*domain.AvailabilityConfig)}
}

func (r *fakeConfigRepo) GetByFacility(_ context.Context, facilityID int64) (*domain.AvailabilityConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	cfg, ok := r.configs[facilityID]
	if !ok {
		return nil, availabilityRepo.ErrConfigNotFound
	}
	return cfg, nil
}

func (r *fakeConfigRepo) Upsert(_ context.Context, cfg *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	stored := *cfg
	if prev, ok := r.configs[cfg.FacilityID]; ok {
		stored.ID = prev.ID
		stored.Version = prev.Version + 1
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.ID = int64(len(r.configs) + 1)
		stored.Version = 1
		stored.CreatedAt = time.Now().UTC()
	}
	stored.UpdatedAt = time.Now().UTC()
	r.configs[cfg.FacilityID] = &stored
	return &stored, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

const testFacilityID = int64(10)

func validUpdateRequest() *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		Timezone: "Europe/Moscow",
		WorkingHours: map[string][]models.WorkingIntervalPayload{
			"monday": {
				{Start: "09:00", End: "13:00"},
				{Start: "14:00", End: "18:00"},
			},
			"saturday": {
				{Start: "10:00", End: "24:00"},
			},
		},
		SlotDurationMinutes: ptr.Ptr(30),
		BufferMinutes:       ptr.Ptr(15),
		MinLeadTimeMinutes:  ptr.Ptr(120),
		MaxAdvanceDays:      ptr.Ptr(60),
	}
}

func newService(repo *fakeConfigRepo) *Service {
	return NewService(repo, fakeTxManager{}, nopLogger{})
}

// --- Тесты ---

func TestUpdateFacilityConfig(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := newService(repo)

	resp, err := svc.UpdateFacilityConfig(context.Background(), testFacilityID, validUpdateRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Version)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
	require.Len(t, resp.WorkingHours["monday"], 2)
	assert.Equal(t, "09:00", resp.WorkingHours["monday"][0].Start)
	// "24:00" сохраняется и возвращается как есть.
	require.Len(t, resp.WorkingHours["saturday"], 1)
	assert.Equal(t, "24:00", resp.WorkingHours["saturday"][0].End)

	// Повторное обновление двигает версию.
	resp, err = svc.UpdateFacilityConfig(context.Background(), testFacilityID, validUpdateRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Version)
}

func TestUpdateFacilityConfig_Defaults(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := newService(repo)

	resp, err := svc.UpdateFacilityConfig(context.Background(), testFacilityID, &models.UpdateConfigRequest{
		WorkingHours: map[string][]models.WorkingIntervalPayload{
			"monday": {{Start: "09:00", End: "18:00"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)
	assert.Equal(t, domain.DefaultBufferMinutes, resp.BufferMinutes)
	assert.Equal(t, domain.DefaultMinLeadTimeMinutes, resp.MinLeadTimeMinutes)
	assert.Equal(t, domain.DefaultMaxAdvanceDays, resp.MaxAdvanceDays)
}

func TestUpdateFacilityConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.UpdateConfigRequest)
	}{
		{
			name:   "unknown timezone",
			mutate: func(req *models.UpdateConfigRequest) { req.Timezone = "Mars/Olympus_Mons" },
		},
		{
			name:   "slot duration too small",
			mutate: func(req *models.UpdateConfigRequest) { req.SlotDurationMinutes = ptr.Ptr(1) },
		},
		{
			name:   "buffer too large",
			mutate: func(req *models.UpdateConfigRequest) { req.BufferMinutes = ptr.Ptr(10000) },
		},
		{
			name:   "advance window too large",
			mutate: func(req *models.UpdateConfigRequest) { req.MaxAdvanceDays = ptr.Ptr(1000) },
		},
		{
			name: "unknown weekday",
			mutate: func(req *models.UpdateConfigRequest) {
				req.WorkingHours["someday"] = []models.WorkingIntervalPayload{{Start: "09:00", End: "10:00"}}
			},
		},
		{
			name: "interval start after end",
			mutate: func(req *models.UpdateConfigRequest) {
				req.WorkingHours["monday"] = []models.WorkingIntervalPayload{{Start: "18:00", End: "09:00"}}
			},
		},
		{
			name: "overlapping intervals",
			mutate: func(req *models.UpdateConfigRequest) {
				req.WorkingHours["monday"] = []models.WorkingIntervalPayload{
					{Start: "09:00", End: "14:00"},
					{Start: "13:00", End: "18:00"},
				}
			},
		},
		{
			name: "unparsable time",
			mutate: func(req *models.UpdateConfigRequest) {
				req.WorkingHours["monday"] = []models.WorkingIntervalPayload{{Start: "9 утра", End: "18:00"}}
			},
		},
		{
			name: "excluded range inverted",
			mutate: func(req *models.UpdateConfigRequest) {
				at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
				req.ExcludedRanges = []models.ExcludedRangePayload{{StartsAt: at, EndsAt: at}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeConfigRepo())
			req := validUpdateRequest()
			tt.mutate(req)

			_, err := svc.UpdateFacilityConfig(context.Background(), testFacilityID, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetFacilityConfig(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := newService(repo)

	_, err := svc.GetFacilityConfig(context.Background(), testFacilityID)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = svc.UpdateFacilityConfig(context.Background(), testFacilityID, validUpdateRequest())
	require.NoError(t, err)

	resp, err := svc.GetFacilityConfig(context.Background(), testFacilityID)
	require.NoError(t, err)
	assert.Equal(t, testFacilityID, resp.FacilityID)
	assert.Equal(t, int64(1), resp.Version)

	_, err = svc.GetFacilityConfig(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStoreUnavailableMapped(t *testing.T) {
	repo := newFakeConfigRepo()
	repo.err = availabilityRepo.ErrStoreUnavailable
	svc := newService(repo)

	_, err := svc.GetFacilityConfig(context.Background(), testFacilityID)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.UpdateFacilityConfig(context.Background(), testFacilityID, validUpdateRequest())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
