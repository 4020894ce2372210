package create_booking

import "time"

// Customer контактные данные клиента
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Request модель запроса на создание бронирования
type Request struct {
	FacilityID  int64     // ID заведения
	Start       time.Time // Начало слота (instant)
	Customer    Customer  // Контакты клиента
	ServiceType string    // Тип услуги (опционально)
	Notes       *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64     // ID созданного бронирования
	FacilityID  int64     // ID заведения
	Start       time.Time // Начало слота (UTC)
	End         time.Time // Конец слота (UTC)
	Status      string    // Статус бронирования
	Customer    Customer  // Контакты клиента
	ServiceType string    // Тип услуги
	Notes       *string   // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
