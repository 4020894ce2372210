package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64     // ID переносимого бронирования
	NewStart  time.Time // Начало нового слота (instant)
	Reason    string    // Причина переноса (опционально, попадает в отменённую запись)
}

// Response модель ответа с результатом переноса
type Response struct {
	// Новое бронирование
	ID         int64     `json:"id"`
	FacilityID int64     `json:"facilityId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`

	// Отменённое бронирование, на месте которого создано новое
	PreviousBookingID int64 `json:"previousBookingId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
