package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/pkg/types"
)

// weekdayNames порядок дней в API payload
var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// weekdayOrder для стабильного порядка в ответах
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func weekdayName(d time.Weekday) string {
	for name, wd := range weekdayNames {
		if wd == d {
			return name
		}
	}
	return ""
}

// Request модели

// WorkingIntervalPayload один рабочий интервал в формате "HH:MM"
type WorkingIntervalPayload struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "18:00", "24:00" = до полуночи
}

// ExcludedRangePayload период недоступности
type ExcludedRangePayload struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Reason   string    `json:"reason,omitempty"`
}

// UpdateConfigRequest запрос на замену конфигурации заведения.
// Замена всегда полная: новая версия снапшота целиком вытесняет старую
type UpdateConfigRequest struct {
	Timezone            string                              `json:"timezone"`
	WorkingHours        map[string][]WorkingIntervalPayload `json:"workingHours"`
	SlotDurationMinutes *int                                `json:"slotDurationMinutes,omitempty"`
	BufferMinutes       *int                                `json:"bufferMinutes,omitempty"`
	MinLeadTimeMinutes  *int                                `json:"minLeadTimeMinutes,omitempty"`
	MaxAdvanceDays      *int                                `json:"maxAdvanceDays,omitempty"`
	ExcludedRanges      []ExcludedRangePayload              `json:"excludedRanges,omitempty"`
}

// ToDomainConfig конвертирует request в domain снапшот.
// Незаполненные числовые поля получают значения по умолчанию
func (r *UpdateConfigRequest) ToDomainConfig(facilityID int64) (*domain.AvailabilityConfig, error) {
	cfg := &domain.AvailabilityConfig{
		FacilityID:          facilityID,
		Timezone:            r.Timezone,
		WorkingHours:        make(map[time.Weekday][]domain.MinuteInterval, len(r.WorkingHours)),
		SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
		BufferMinutes:       domain.DefaultBufferMinutes,
		MinLeadTimeMinutes:  domain.DefaultMinLeadTimeMinutes,
		MaxAdvanceDays:      domain.DefaultMaxAdvanceDays,
	}
	if cfg.Timezone == "" {
		cfg.Timezone = domain.DefaultTimezone
	}
	if r.SlotDurationMinutes != nil {
		cfg.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.BufferMinutes != nil {
		cfg.BufferMinutes = *r.BufferMinutes
	}
	if r.MinLeadTimeMinutes != nil {
		cfg.MinLeadTimeMinutes = *r.MinLeadTimeMinutes
	}
	if r.MaxAdvanceDays != nil {
		cfg.MaxAdvanceDays = *r.MaxAdvanceDays
	}

	for name, intervals := range r.WorkingHours {
		weekday, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}

		converted := make([]domain.MinuteInterval, 0, len(intervals))
		for _, iv := range intervals {
			start, end, err := intervalMinutes(iv)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", name, err)
			}
			converted = append(converted, domain.MinuteInterval{StartMinute: start, EndMinute: end})
		}
		sort.Slice(converted, func(i, j int) bool {
			return converted[i].StartMinute < converted[j].StartMinute
		})
		cfg.WorkingHours[weekday] = converted
	}

	for _, er := range r.ExcludedRanges {
		cfg.ExcludedRanges = append(cfg.ExcludedRanges, domain.ExcludedRange{
			StartsAt: er.StartsAt.UTC(),
			EndsAt:   er.EndsAt.UTC(),
			Reason:   er.Reason,
		})
	}

	return cfg, nil
}

// intervalMinutes парсит границы интервала в минуты от полуночи.
// Конец "24:00" обозначает полночь следующего дня
func intervalMinutes(iv WorkingIntervalPayload) (int, int, error) {
	if iv.End == "24:00" {
		start, err := parseMinutes(iv.Start)
		if err != nil {
			return 0, 0, err
		}
		return start, domain.MinutesPerDay, nil
	}

	start, err := parseMinutes(iv.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseMinutes(iv.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseMinutes(s string) (int, error) {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return ts.Minutes()
}

// Response модели

// ConfigResponse ответ с конфигурацией заведения
type ConfigResponse struct {
	ID                  int64                               `json:"id"`
	FacilityID          int64                               `json:"facilityId"`
	Version             int64                               `json:"version"`
	Timezone            string                              `json:"timezone"`
	WorkingHours        map[string][]WorkingIntervalPayload `json:"workingHours"`
	SlotDurationMinutes int                                 `json:"slotDurationMinutes"`
	BufferMinutes       int                                 `json:"bufferMinutes"`
	MinLeadTimeMinutes  int                                 `json:"minLeadTimeMinutes"`
	MaxAdvanceDays      int                                 `json:"maxAdvanceDays"`
	ExcludedRanges      []ExcludedRangePayload              `json:"excludedRanges,omitempty"`
	CreatedAt           time.Time                           `json:"createdAt"`
	UpdatedAt           time.Time                           `json:"updatedAt"`
}

// FromDomainConfig конвертирует domain снапшот в DTO
func FromDomainConfig(c *domain.AvailabilityConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	resp := &ConfigResponse{
		ID:                  c.ID,
		FacilityID:          c.FacilityID,
		Version:             c.Version,
		Timezone:            c.Timezone,
		WorkingHours:        make(map[string][]WorkingIntervalPayload, len(c.WorkingHours)),
		SlotDurationMinutes: c.SlotDurationMinutes,
		BufferMinutes:       c.BufferMinutes,
		MinLeadTimeMinutes:  c.MinLeadTimeMinutes,
		MaxAdvanceDays:      c.MaxAdvanceDays,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}

	for _, weekday := range weekdayOrder {
		intervals := c.WorkingHours[weekday]
		if len(intervals) == 0 {
			continue
		}
		payload := make([]WorkingIntervalPayload, 0, len(intervals))
		for _, iv := range intervals {
			payload = append(payload, WorkingIntervalPayload{
				Start: minutesToString(iv.StartMinute),
				End:   minutesToString(iv.EndMinute),
			})
		}
		resp.WorkingHours[weekdayName(weekday)] = payload
	}

	for _, er := range c.ExcludedRanges {
		resp.ExcludedRanges = append(resp.ExcludedRanges, ExcludedRangePayload{
			StartsAt: er.StartsAt,
			EndsAt:   er.EndsAt,
			Reason:   er.Reason,
		})
	}

	return resp
}

func minutesToString(minutes int) string {
	if minutes == domain.MinutesPerDay {
		return "24:00"
	}
	ts, err := types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		return ""
	}
	return ts.String()
}
