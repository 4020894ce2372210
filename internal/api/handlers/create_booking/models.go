package create_booking

import (
	"time"

	createBooking "github.com/Julianb233/appointment-service/internal/usecase/create_booking"
)

// CustomerPayload контактные данные клиента
type CustomerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FacilityID  int64           `json:"facilityId"`
	Start       string          `json:"start"` // RFC 3339, например "2026-09-14T09:00:00Z"
	Customer    CustomerPayload `json:"customer"`
	ServiceType string          `json:"serviceType,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64           `json:"id"`
	FacilityID  int64           `json:"facilityId"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Status      string          `json:"status"`
	Customer    CustomerPayload `json:"customer"`
	ServiceType string          `json:"serviceType,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		FacilityID: r.FacilityID,
		Start:      start,
		Customer: createBooking.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		ServiceType: r.ServiceType,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		FacilityID: resp.FacilityID,
		Start:      resp.Start.Format(time.RFC3339),
		End:        resp.End.Format(time.RFC3339),
		Status:     resp.Status,
		Customer: CustomerPayload{
			Name:  resp.Customer.Name,
			Email: resp.Customer.Email,
			Phone: resp.Customer.Phone,
		},
		ServiceType: resp.ServiceType,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
