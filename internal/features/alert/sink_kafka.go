package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/egyjs/order-management-backend-app/internal/eventengine/event"
	"github.com/segmentio/kafka-go"
)

type kafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink returns a sink that publishes alerts to a Kafka topic for
// downstream notification services (mail, push) to consume.
func NewKafkaSink(brokerAddr, topic string) *kafkaSink {
	return &kafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokerAddr),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
	}
}

func (s *kafkaSink) Deliver(ctx context.Context, alert *event.StockRunningLowEvent) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal low stock alert: %w", err)
	}

	// keyed by ingredient so alerts for one ingredient stay in order
	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(alert.IngredientID.String()),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish low stock alert to kafka: %w", err)
	}

	return nil
}

func (s *kafkaSink) Close() error {
	return s.writer.Close()
}
