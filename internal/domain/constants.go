package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultMinLeadTimeMinutes  = 60 // 1 hour
	DefaultMaxAdvanceDays      = 0  // 0 = unlimited
	DefaultTimezone            = "UTC"
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MinBufferMinutes       = 0
	MaxBufferMinutes       = 240
	MinLeadTimeMinutes     = 0
	MaxLeadTimeMinutes     = 10080 // 1 week
	MinAdvanceDays         = 0
	MaxAdvanceDays         = 365 // 1 year
	MaxNotesLength         = 500
	MaxReasonLength        = 500

	MinutesPerDay = 24 * 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, занимающих время в календаре.
// Используется при проверке пересечений слотов.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses список конечных статусов, из которых нет переходов.
var TerminalStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
