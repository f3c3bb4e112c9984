package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type kafkaPublisher struct {
	writer  *kafka.Writer
	timeout time.Duration
}

// NewKafkaPublisher writes events to topic keyed by employee id, so the events
// of one employee stay ordered within a partition. Each Publish gives up after
// timeout so a broker outage cannot hold a payroll request.
func NewKafkaPublisher(brokers []string, topic string, timeout time.Duration) Publisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           timeout,
	}, timeout)
}

func NewKafkaPublisherWithWriter(writer *kafka.Writer, timeout time.Duration) Publisher {
	return &kafkaPublisher{writer: writer, timeout: timeout}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event PayrollRecordEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EmployeeID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte("payroll_record")},
		},
		Time: event.OccurredAt,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
