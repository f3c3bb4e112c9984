package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.Publish(context.Background(), PayrollRecordEvent{EventType: EventPayrollCommitted}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_UnreachableBroker(t *testing.T) {
	p := NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP("127.0.0.1:1"),
		Topic:        "payroll-events",
		Balancer:     &kafka.Hash{},
		MaxAttempts:  1,
		WriteTimeout: 200 * time.Millisecond,
	}, time.Second)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := p.Publish(ctx, PayrollRecordEvent{
		EventType:  EventPayrollCommitted,
		RecordID:   "rec-1",
		EmployeeID: "emp-1",
		OccurredAt: time.Now(),
	})
	assert.Error(t, err)
}

func TestKafkaPublisher_TimeoutBoundsRetries(t *testing.T) {
	p := NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:        kafka.TCP("127.0.0.1:1"),
		Topic:       "payroll-events",
		Balancer:    &kafka.Hash{},
		MaxAttempts: 10,
	}, 300*time.Millisecond)
	defer p.Close()

	start := time.Now()
	err := p.Publish(context.Background(), PayrollRecordEvent{
		EventType:  EventPayrollStatusChanged,
		RecordID:   "rec-1",
		EmployeeID: "emp-1",
		OccurredAt: time.Now(),
	})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

type countingPublisher struct {
	published int
	err       error
}

func (c *countingPublisher) Publish(context.Context, PayrollRecordEvent) error {
	c.published++
	return c.err
}

func (c *countingPublisher) Close() error { return c.err }

func TestMultiPublisher(t *testing.T) {
	failing := &countingPublisher{err: errors.New("down")}
	ok := &countingPublisher{}
	p := NewMultiPublisher(failing, ok)

	err := p.Publish(context.Background(), PayrollRecordEvent{EventType: EventPayrollStatusChanged})
	assert.ErrorIs(t, err, failing.err)
	assert.Equal(t, 1, failing.published)
	assert.Equal(t, 1, ok.published)

	assert.Error(t, p.Close())
	assert.NoError(t, NewMultiPublisher(ok).Close())
}
