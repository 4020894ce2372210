package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Julianb233/appointment-service/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Observer получает исход каждой попытки отправки (prometheus-счётчик)
type Observer interface {
	ObserveNotification(template string, err error)
}

// KafkaNotifier публикует события бронирований в Kafka.
//
// Отправка всегда fire-and-forget и отвязана от транзакции бронирования:
// ошибка публикации видна только в логах и метриках, но никогда не
// откатывает бронирование и не попадает в ответ API.
type KafkaNotifier struct {
	writer   *kafka.Writer
	timeout  time.Duration
	logger   Logger
	observer Observer
}

// NewKafkaNotifier создает продюсер уведомлений.
// observer может быть nil, если метрики выключены.
func NewKafkaNotifier(brokers []string, topic string, timeout time.Duration, logger Logger, observer Observer) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaNotifier{
		writer:   writer,
		timeout:  timeout,
		logger:   logger,
		observer: observer,
	}
}

// Notify публикует уведомление о бронировании в отдельной горутине.
// Возвращает управление сразу, не дожидаясь брокера.
func (n *KafkaNotifier) Notify(booking *domain.Booking, template TemplateKind) {
	event := NewBookingEvent(uuid.NewString(), template, booking, time.Now().UTC())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		err := n.publish(ctx, event)
		if n.observer != nil {
			n.observer.ObserveNotification(string(template), err)
		}
		if err != nil {
			n.logger.Error("Notify: failed to publish %s event for booking id=%d: %v",
				template, booking.ID, err)
			return
		}
		n.logger.Info("Notify: published %s event id=%s for booking id=%d",
			template, event.EventID, booking.ID)
	}()
}

func (n *KafkaNotifier) publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.BookingID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.Template)},
		},
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("notify: write message: %w", err)
	}
	return nil
}

// Close закрывает продюсер
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NoopNotifier заглушка для конфигурации с выключенными уведомлениями
type NoopNotifier struct{}

func (NoopNotifier) Notify(_ *domain.Booking, _ TemplateKind) {}
