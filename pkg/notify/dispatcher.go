package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
	"go.uber.org/zap"
)

var (
	ErrQueueFull = errors.New("notification queue is full")
	ErrClosed    = errors.New("dispatcher is closed")
)

// Dispatcher delivers notifications on background workers. Notify only
// enqueues; delivery failures go to the error handler and are never returned
// to the caller.
type Dispatcher struct {
	target  Notifier
	queue   chan *entities.Notification
	logger  *zap.Logger
	onError func(n *entities.Notification, err error)
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for delivery failures
func WithLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithErrorHandler is called after every failed delivery
func WithErrorHandler(fn func(n *entities.Notification, err error)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onError = fn
	}
}

// WithTimeout bounds each delivery attempt
func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// NewDispatcher starts workers delivering to target from a queue of queueSize
func NewDispatcher(target Notifier, workers, queueSize int, opts ...DispatcherOption) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	d := &Dispatcher{
		target:  target,
		queue:   make(chan *entities.Notification, queueSize),
		logger:  zap.NewNop(),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.run()
	}
	return d
}

// Notify enqueues n without waiting for delivery
func (d *Dispatcher) Notify(ctx context.Context, n *entities.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting notifications and waits for the queue to drain
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.target.Notify(ctx, n)
		cancel()

		if err != nil {
			d.fail(n, err)
		}
	}
}

func (d *Dispatcher) fail(n *entities.Notification, err error) {
	d.logger.Warn("notification delivery failed",
		zap.String("user_id", n.UserID),
		zap.String("type", string(n.Type)),
		zap.Error(err))
	if d.onError != nil {
		d.onError(n, err)
	}
}
