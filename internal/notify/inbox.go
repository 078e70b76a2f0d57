package notify

import (
	"context"
	"sync"
)

// Inbox keeps the most recent notifications per user until they are drained.
type Inbox struct {
	mu    sync.Mutex
	limit int
	items map[string][]Notification
}

func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 50
	}
	return &Inbox{limit: limit, items: make(map[string][]Notification)}
}

// Deliver appends n, dropping the oldest entry once the user is at the limit.
func (i *Inbox) Deliver(_ context.Context, n Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	list := append(i.items[n.UserID], n)
	if len(list) > i.limit {
		list = append([]Notification(nil), list[len(list)-i.limit:]...)
	}
	i.items[n.UserID] = list
	return nil
}

// Drain returns the user's pending notifications, oldest first, and clears them.
func (i *Inbox) Drain(userID string) []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	list := i.items[userID]
	delete(i.items, userID)
	if list == nil {
		return []Notification{}
	}
	return list
}

// Forget drops everything held for userID.
func (i *Inbox) Forget(userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.items, userID)
}
