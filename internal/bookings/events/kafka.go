package events

import (
	"context"
	"fmt"

	"safari/pkg/kafka"
	kafka_config "safari/pkg/kafka/config"
	kafka_middleware "safari/pkg/kafka/middleware"
	"safari/pkg/logger"
	"safari/pkg/middleware"
)

const (
	schemaVersion = "1"
	source        = "bookings"
)

type messageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messageProducer
}

// NewKafkaPublisher builds a producer for topic with publish logging.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(kafka_config.Load(brokers), topic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking events producer: %w", err)
	}
	producer.Use(kafka_middleware.Logging(log))

	log.Info("Booking events producer ready", "topic", topic, "brokers", brokers)
	return newKafkaPublisher(producer), nil
}

func newKafkaPublisher(producer messageProducer) *kafkaPublisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		WithCorrelationID(middleware.RequestIDFrom(ctx)).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
