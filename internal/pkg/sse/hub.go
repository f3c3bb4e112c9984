package sse

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
)

// AllEmployees is the topic that receives every payroll event.
const AllEmployees = "*"

// Hub fans payroll events out to connected SSE clients. Subscribers pick a
// topic: an employee id for that employee's records, or AllEmployees.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan events.PayrollRecordEvent]struct{}
}

var _ events.Publisher = (*Hub)(nil)

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan events.PayrollRecordEvent]struct{}),
	}
}

// Subscribe registers a new subscriber for topic and returns the event channel and cleanup function
func (h *Hub) Subscribe(topic string) (<-chan events.PayrollRecordEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan events.PayrollRecordEvent, 10)

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan events.PayrollRecordEvent]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[topic][ch]; !ok {
				return
			}
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to the employee's subscribers and to AllEmployees.
// Slow subscribers miss events rather than block the writer.
func (h *Hub) Publish(_ context.Context, event events.PayrollRecordEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, topic := range []string{event.EmployeeID, AllEmployees} {
		for ch := range h.subscribers[topic] {
			select {
			case ch <- event:
			default:
			}
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(h.subscribers, topic)
	}
	return nil
}

// SubscriberCount returns the number of active subscribers for a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

// TotalSubscribers returns the total number of active subscribers across all topics
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
