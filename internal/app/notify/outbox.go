package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

const (
	DefaultOutboxBuffer  = 256
	DefaultOutboxWorkers = 2
	DefaultNotifyTimeout = 10 * time.Second
)

// ChannelOutbox queues events in memory and dispatches them from a fixed
// pool of workers. Events still queued when the process dies are lost.
type ChannelOutbox struct {
	dispatcher ports.NotificationDispatcher
	timeout    time.Duration
	events     chan domain.NotificationEvent

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.Outbox = (*ChannelOutbox)(nil)

func NewChannelOutbox(dispatcher ports.NotificationDispatcher, buffer, workers int, timeout time.Duration) *ChannelOutbox {
	if buffer <= 0 {
		buffer = DefaultOutboxBuffer
	}
	if workers <= 0 {
		workers = DefaultOutboxWorkers
	}
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}

	o := &ChannelOutbox{
		dispatcher: dispatcher,
		timeout:    timeout,
		events:     make(chan domain.NotificationEvent, buffer),
	}
	o.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go o.work()
	}
	return o
}

// Enqueue never blocks: when the buffer is full the event is dropped.
func (o *ChannelOutbox) Enqueue(_ context.Context, events ...domain.NotificationEvent) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		zap.L().Warn("notification outbox closed, dropping events", zap.Int("count", len(events)))
		return
	}

	for _, event := range events {
		select {
		case o.events <- event:
		default:
			zap.L().Warn("notification outbox full, dropping event",
				zap.String("kind", string(event.Kind)),
				zap.String("task_id", event.TaskID),
			)
		}
	}
}

// Close stops accepting events and waits until the queued ones are dispatched.
func (o *ChannelOutbox) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.events)
	o.mu.Unlock()

	o.wg.Wait()
}

func (o *ChannelOutbox) work() {
	defer o.wg.Done()
	for event := range o.events {
		Deliver(o.dispatcher, event, o.timeout)
	}
}

// Deliver dispatches one event under its own timeout. Failures and panics
// are logged and never propagate.
func Deliver(dispatcher ports.NotificationDispatcher, event domain.NotificationEvent, timeout time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("notification dispatch panicked",
				zap.Any("panic", r),
				zap.String("kind", string(event.Kind)),
				zap.String("task_id", event.TaskID),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := dispatcher.Dispatch(ctx, event); err != nil {
		zap.L().Warn("notification dispatch failed",
			zap.String("kind", string(event.Kind)),
			zap.String("audience", string(event.Audience)),
			zap.String("task_id", event.TaskID),
			zap.Error(err),
		)
	}
}
