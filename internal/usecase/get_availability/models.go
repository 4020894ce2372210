package get_availability

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	FacilityID  int64     // ID заведения
	From        time.Time // Начало диапазона (instant)
	To          time.Time // Конец диапазона (instant)
	ServiceType *string   // Тип услуги (для логирования, не влияет на расчёт)
}

// Response модель ответа со списком слотов
type Response struct {
	FacilityID    int64     `json:"facilityId"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	ConfigVersion int64     `json:"configVersion"` // версия снапшота, по которому считались слоты
	Slots         []Slot    `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	Start     time.Time `json:"start"` // UTC
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}
