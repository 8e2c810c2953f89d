package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversAndDrains(t *testing.T) {
	var delivered atomic.Int64
	target := NotifierFunc(func(ctx context.Context, n *entities.Notification) error {
		delivered.Add(1)
		return nil
	})

	d := NewDispatcher(target, 3, 100)
	for i := 0; i < 50; i++ {
		assert.NoError(t, d.Notify(context.Background(), &entities.Notification{UserID: "alice"}))
	}
	d.Close()

	assert.Equal(t, int64(50), delivered.Load())
	assert.ErrorIs(t, d.Notify(context.Background(), &entities.Notification{}), ErrClosed)

	// Closing twice is safe
	d.Close()
}

func TestDispatcherReportsFailures(t *testing.T) {
	var mu sync.Mutex
	var failed []error

	target := NotifierFunc(func(ctx context.Context, n *entities.Notification) error {
		return errors.New("sink down")
	})

	d := NewDispatcher(target, 1, 10, WithErrorHandler(func(n *entities.Notification, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, err)
	}))

	assert.NoError(t, d.Notify(context.Background(), &entities.Notification{UserID: "bob"}))
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, failed, 1)
}

func TestDispatcherQueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	target := NotifierFunc(func(ctx context.Context, n *entities.Notification) error {
		started <- struct{}{}
		<-release
		return nil
	})

	var dropped atomic.Int64
	d := NewDispatcher(target, 1, 1, WithErrorHandler(func(n *entities.Notification, err error) {
		if errors.Is(err, ErrQueueFull) {
			dropped.Add(1)
		}
	}))

	// First notification occupies the worker, second fills the queue
	assert.NoError(t, d.Notify(context.Background(), &entities.Notification{}))
	<-started
	assert.NoError(t, d.Notify(context.Background(), &entities.Notification{}))
	assert.ErrorIs(t, d.Notify(context.Background(), &entities.Notification{}), ErrQueueFull)
	// The caller reports a rejected enqueue, the handler only sees delivery failures
	assert.Equal(t, int64(0), dropped.Load())

	close(release)
	go func() {
		for range started {
		}
	}()
	d.Close()
	close(started)
}
