package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Julianb233/appointment-service/internal/domain"
)

func TestNewBookingEvent(t *testing.T) {
	start := time.Date(2026, time.January, 26, 10, 0, 0, 0, time.UTC)
	occurredAt := start.Add(-time.Hour)

	booking := &domain.Booking{
		ID:         42,
		FacilityID: 10,
		Start:      start,
		End:        start.Add(30 * time.Minute),
		Status:     domain.StatusConfirmed,
		Customer: domain.CustomerContact{
			Name:  "Иван Петров",
			Email: "ivan@example.com",
			Phone: "+79990000000",
		},
		ServiceType: "consultation",
	}

	event := NewBookingEvent("evt-1", TemplateConfirmation, booking, occurredAt)

	assert.Equal(t, "evt-1", event.EventID)
	assert.Equal(t, TemplateConfirmation, event.Template)
	assert.Equal(t, int64(42), event.BookingID)
	assert.Equal(t, "confirmed", event.Status)
	assert.Equal(t, "Иван Петров", event.CustomerName)

	// Поля сообщения стабильны: внешний потребитель разбирает их по именам.
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	for _, key := range []string{"eventId", "template", "occurredAt", "bookingId", "facilityId", "start", "end", "status"} {
		assert.Contains(t, decoded, key)
	}
}
