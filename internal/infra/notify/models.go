package notify

import (
	"time"

	"github.com/Julianb233/appointment-service/internal/domain"
)

// TemplateKind вид уведомления для внешнего отправителя
type TemplateKind string

const (
	TemplateConfirmation TemplateKind = "confirmation"
	TemplateCancellation TemplateKind = "cancellation"
)

// BookingEvent сообщение для топика уведомлений. Доставкой (email/SMS)
// занимается внешний сервис-потребитель; этот сервис только публикует факт.
type BookingEvent struct {
	EventID    string       `json:"eventId"`
	Template   TemplateKind `json:"template"`
	OccurredAt time.Time    `json:"occurredAt"`

	BookingID  int64     `json:"bookingId"`
	FacilityID int64     `json:"facilityId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	ServiceType   string `json:"serviceType"`
}

// NewBookingEvent собирает событие из бронирования
func NewBookingEvent(eventID string, template TemplateKind, b *domain.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		EventID:       eventID,
		Template:      template,
		OccurredAt:    occurredAt,
		BookingID:     b.ID,
		FacilityID:    b.FacilityID,
		Start:         b.Start,
		End:           b.End,
		Status:        string(b.Status),
		CustomerName:  b.Customer.Name,
		CustomerEmail: b.Customer.Email,
		CustomerPhone: b.Customer.Phone,
		ServiceType:   b.ServiceType,
	}
}
