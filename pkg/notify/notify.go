// Package notify provides a queue of transient user-facing messages.
//
// Command handlers enqueue; the UI layer consumes either the delivery
// channel or the Pending snapshot and dismisses entries after display.
// Notifications are ephemeral and never persisted.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Severity classifies a notification for display purposes.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a single transient message.
type Notification struct {
	ID       uuid.UUID
	Message  string
	Severity Severity
	At       time.Time
}

// Queue collects notifications until the UI dismisses them.
type Queue struct {
	mu      sync.Mutex
	pending []Notification

	ch       chan Notification
	enqueued metric.Int64Counter
}

// Option configures a Queue.
type Option func(*Queue)

// WithMeter records an enqueue counter, labeled by severity, on the given
// meter.
func WithMeter(m metric.Meter) Option {
	return func(q *Queue) {
		ctr, err := m.Int64Counter("client.notifications.enqueued",
			metric.WithDescription("Notifications enqueued, by severity."))
		if err != nil {
			return
		}
		q.enqueued = ctr
	}
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		ch: make(chan Notification, 64),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a notification and returns it. Delivery on the channel is
// best-effort: if no consumer is draining, Enqueue still returns without
// blocking and the entry stays visible via Pending.
func (q *Queue) Enqueue(ctx context.Context, message string, severity Severity) Notification {
	n := Notification{
		ID:       uuid.New(),
		Message:  message,
		Severity: severity,
		At:       time.Now(),
	}

	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()

	select {
	case q.ch <- n:
	default:
	}

	if q.enqueued != nil {
		q.enqueued.Add(ctx, 1, metric.WithAttributes(
			attribute.String("severity", string(severity)),
		))
	}
	return n
}

// Pending returns a copy of the undismissed notifications in enqueue order.
func (q *Queue) Pending() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.pending))
	copy(out, q.pending)
	return out
}

// Dismiss removes the notification with the given id, if present.
func (q *Queue) Dismiss(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.pending {
		if n.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// C is the delivery channel for a drain loop.
func (q *Queue) C() <-chan Notification {
	return q.ch
}
