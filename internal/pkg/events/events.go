package events

import (
	"context"
	"time"
)

const (
	EventPayrollCommitted     = "payroll.record.committed"
	EventPayrollStatusChanged = "payroll.record.status_changed"
)

// PayrollRecordEvent is the payload emitted whenever a payroll record is
// written. PreviousStatus is empty for newly created records.
type PayrollRecordEvent struct {
	EventType      string    `json:"event_type"`
	RecordID       string    `json:"record_id"`
	EmployeeID     string    `json:"employee_id"`
	Period         string    `json:"period"`
	Amount         string    `json:"amount"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Created        bool      `json:"created"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event PayrollRecordEvent) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, PayrollRecordEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
