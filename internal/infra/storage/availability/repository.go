package availability

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/pkg/dbmetrics"
	"github.com/Julianb233/appointment-service/pkg/psqlbuilder"
)

// Переиспользуем интерфейс dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий конфигурации доступности заведения.
// Снимок собирается из трёх таблиц: базовые параметры, рабочие часы по дням
// недели и исключённые интервалы. Возвращаемый снимок неизменяем; каждое
// административное обновление увеличивает version и заменяет снимок целиком.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByFacility собирает полный снимок конфигурации заведения
func (r *Repository) GetByFacility(ctx context.Context, facilityID int64) (*domain.AvailabilityConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"facility_id",
		"version",
		"timezone",
		"slot_duration_minutes",
		"buffer_minutes",
		"min_lead_time_minutes",
		"max_advance_days",
		"created_at",
		"updated_at",
	).
		From("facility_availability_config").
		Where(squirrel.Eq{"facility_id": facilityID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.AvailabilityConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.FacilityID,
		&cfg.Version,
		&cfg.Timezone,
		&cfg.SlotDurationMinutes,
		&cfg.BufferMinutes,
		&cfg.MinLeadTimeMinutes,
		&cfg.MaxAdvanceDays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, wrapExec("GetByFacility - scan config", err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	if cfg.WorkingHours, err = r.loadWorkingHours(ctx, executor, cfg.ID); err != nil {
		return nil, err
	}
	if cfg.ExcludedRanges, err = r.loadExcludedRanges(ctx, executor, cfg.ID); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Upsert создает или заменяет конфигурацию заведения, увеличивая version.
// Рабочие часы и исключения перезаписываются целиком. Вызывается внутри
// транзакции административного обновления.
func (r *Repository) Upsert(ctx context.Context, cfg *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("facility_availability_config").
		Columns(
			"facility_id",
			"version",
			"timezone",
			"slot_duration_minutes",
			"buffer_minutes",
			"min_lead_time_minutes",
			"max_advance_days",
		).
		Values(
			cfg.FacilityID,
			1,
			cfg.Timezone,
			cfg.SlotDurationMinutes,
			cfg.BufferMinutes,
			cfg.MinLeadTimeMinutes,
			cfg.MaxAdvanceDays,
		).
		Suffix(`ON CONFLICT (facility_id) DO UPDATE SET
			version = facility_availability_config.version + 1,
			timezone = EXCLUDED.timezone,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			min_lead_time_minutes = EXCLUDED.min_lead_time_minutes,
			max_advance_days = EXCLUDED.max_advance_days,
			updated_at = NOW()
		RETURNING id, version, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, wrapExec("Upsert - execute upsert", err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	if err := r.replaceWorkingHours(ctx, executor, cfg.ID, cfg.WorkingHours); err != nil {
		return nil, err
	}
	if err := r.replaceExcludedRanges(ctx, executor, cfg.ID, cfg.ExcludedRanges); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *Repository) loadWorkingHours(ctx context.Context, executor DBExecutor, configID int64) (map[time.Weekday][]domain.MinuteInterval, error) {
	query, args, err := psqlbuilder.Select("weekday", "start_minute", "end_minute").
		From("facility_working_hours").
		Where(squirrel.Eq{"config_id": configID}).
		OrderBy("weekday ASC, start_minute ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExec("loadWorkingHours - execute query", err)
	}
	defer rows.Close()

	hours := make(map[time.Weekday][]domain.MinuteInterval)
	for rows.Next() {
		var weekday int
		var interval domain.MinuteInterval
		if err := rows.Scan(&weekday, &interval.StartMinute, &interval.EndMinute); err != nil {
			return nil, fmt.Errorf("%w: loadWorkingHours - scan row: %v", ErrScanRow, err)
		}
		hours[time.Weekday(weekday)] = append(hours[time.Weekday(weekday)], interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

func (r *Repository) loadExcludedRanges(ctx context.Context, executor DBExecutor, configID int64) ([]domain.ExcludedRange, error) {
	query, args, err := psqlbuilder.Select("starts_at", "ends_at", "reason").
		From("facility_excluded_ranges").
		Where(squirrel.Eq{"config_id": configID}).
		OrderBy("starts_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadExcludedRanges - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExec("loadExcludedRanges - execute query", err)
	}
	defer rows.Close()

	ranges := make([]domain.ExcludedRange, 0)
	for rows.Next() {
		var er domain.ExcludedRange
		if err := rows.Scan(&er.StartsAt, &er.EndsAt, &er.Reason); err != nil {
			return nil, fmt.Errorf("%w: loadExcludedRanges - scan row: %v", ErrScanRow, err)
		}
		ranges = append(ranges, er)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadExcludedRanges - rows error: %v", ErrScanRow, err)
	}

	return ranges, nil
}

func (r *Repository) replaceWorkingHours(ctx context.Context, executor DBExecutor, configID int64, hours map[time.Weekday][]domain.MinuteInterval) error {
	deleteQuery, deleteArgs, err := psqlbuilder.Delete("facility_working_hours").
		Where(squirrel.Eq{"config_id": configID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWorkingHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return wrapExec("replaceWorkingHours - execute delete", err)
	}

	insertBuilder := psqlbuilder.Insert("facility_working_hours").
		Columns("config_id", "weekday", "start_minute", "end_minute")

	empty := true
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		for _, interval := range hours[weekday] {
			insertBuilder = insertBuilder.Values(configID, int(weekday), interval.StartMinute, interval.EndMinute)
			empty = false
		}
	}
	if empty {
		return nil
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return wrapExec("replaceWorkingHours - execute insert", err)
	}

	return nil
}

func (r *Repository) replaceExcludedRanges(ctx context.Context, executor DBExecutor, configID int64, ranges []domain.ExcludedRange) error {
	deleteQuery, deleteArgs, err := psqlbuilder.Delete("facility_excluded_ranges").
		Where(squirrel.Eq{"config_id": configID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceExcludedRanges - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return wrapExec("replaceExcludedRanges - execute delete", err)
	}

	if len(ranges) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("facility_excluded_ranges").
		Columns("config_id", "starts_at", "ends_at", "reason")
	for _, er := range ranges {
		insertBuilder = insertBuilder.Values(configID, er.StartsAt, er.EndsAt, er.Reason)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceExcludedRanges - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return wrapExec("replaceExcludedRanges - execute insert", err)
	}

	return nil
}

// wrapExec оборачивает ошибку выполнения запроса, отличая недоступность
// хранилища от прочих ошибок.
func wrapExec(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}
