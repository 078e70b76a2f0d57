package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/talentscout/internal/notify"
	"github.com/vytor/talentscout/internal/worker"
)

type recordingSink struct {
	mu  sync.Mutex
	got []notify.Notification
	wg  *sync.WaitGroup
}

func (s *recordingSink) Deliver(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	s.got = append(s.got, n)
	s.mu.Unlock()
	s.wg.Done()
	return nil
}

type panicSink struct{ wg *sync.WaitGroup }

func (s panicSink) Deliver(context.Context, notify.Notification) error {
	defer s.wg.Done()
	panic("sink exploded")
}

type failingSink struct{ wg *sync.WaitGroup }

func (s failingSink) Deliver(context.Context, notify.Notification) error {
	defer s.wg.Done()
	return errors.New("smtp down")
}

func TestDispatcher_DeliversToAllSinks(t *testing.T) {
	pool := worker.NewPool("notify", 2, 16)
	pool.Start(context.Background())
	defer pool.Stop()

	var wg sync.WaitGroup
	wg.Add(3)
	rec := &recordingSink{wg: &wg}
	d := notify.NewDispatcher(pool, rec, panicSink{wg: &wg}, failingSink{wg: &wg})

	d.Notify(context.Background(), notify.Notification{
		UserID:      "u1",
		Title:       "Profile updated successfully",
		Description: "Your basic information has been updated",
	})
	wg.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.got, 1)
	assert.Equal(t, notify.VariantDefault, rec.got[0].Variant)
	assert.False(t, rec.got[0].CreatedAt.IsZero())
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	pool := worker.NewPool("notify", 1, 1) // not started yet
	inbox := notify.NewInbox(10)
	d := notify.NewDispatcher(pool, inbox)

	done := make(chan struct{})
	go func() {
		d.Notify(context.Background(), notify.Notification{UserID: "u1", Title: "first"})
		d.Notify(context.Background(), notify.Notification{UserID: "u1", Title: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	pool.Start(context.Background())
	pool.Stop()
	got := inbox.Drain("u1")
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Title)
}

func TestInbox_BoundedAndDrained(t *testing.T) {
	inbox := notify.NewInbox(2)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, inbox.Deliver(ctx, notify.Notification{UserID: "u1", Title: title}))
	}
	require.NoError(t, inbox.Deliver(ctx, notify.Notification{UserID: "u2", Title: "other"}))

	got := inbox.Drain("u1")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)

	assert.Empty(t, inbox.Drain("u1"))
	assert.NotNil(t, inbox.Drain("nobody"))

	inbox.Forget("u2")
	assert.Empty(t, inbox.Drain("u2"))
}

func TestLogSink(t *testing.T) {
	assert.NoError(t, notify.LogSink{}.Deliver(context.Background(), notify.Notification{UserID: "u1", Title: "t"}))
}
