package mocks

import (
	"context"
	"sync"

	"github.com/vytor/talentscout/internal/notify"
)

// RecordingNotifier collects notifications synchronously for assertions.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *RecordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns a copy of everything notified so far.
func (r *RecordingNotifier) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

// Last returns the most recent notification.
func (r *RecordingNotifier) Last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return notify.Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}
