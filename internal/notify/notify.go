// Package notify delivers short user-facing messages (toasts) after profile
// submissions. Delivery is fire-and-forget: it never blocks or fails the
// caller.
package notify

import (
	"context"
	"time"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/worker"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

type Notification struct {
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     Variant   `json:"variant"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notifier accepts notifications without waiting for delivery.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Sink is one delivery target.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Dispatcher fans notifications out to its sinks on a worker pool.
type Dispatcher struct {
	pool  *worker.Pool
	sinks []Sink
	now   func() time.Time
}

func NewDispatcher(pool *worker.Pool, sinks ...Sink) *Dispatcher {
	return &Dispatcher{pool: pool, sinks: sinks, now: time.Now}
}

// Notify queues one delivery job per sink. When the queue is full the
// notification is dropped for that sink.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	log := logger.FromContext(ctx).WithPrefix("notify")
	if n.Variant == "" {
		n.Variant = VariantDefault
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now().UTC()
	}
	for _, sink := range d.sinks {
		if !d.pool.TrySubmit(&deliverJob{sink: sink, n: n}) {
			log.Warn("dropped notification for user %s: %q", n.UserID, n.Title)
		}
	}
}

type deliverJob struct {
	sink Sink
	n    Notification
}

func (j *deliverJob) Name() string { return "deliver_notification" }

func (j *deliverJob) Run(ctx context.Context) error {
	return j.sink.Deliver(ctx, j.n)
}

// LogSink writes notifications to the log.
type LogSink struct{}

func (LogSink) Deliver(ctx context.Context, n Notification) error {
	logger.FromContext(ctx).WithPrefix("notify").WithFields(map[string]any{
		"user_id": n.UserID,
		"variant": string(n.Variant),
	}).Info("%s: %s", n.Title, n.Description)
	return nil
}
