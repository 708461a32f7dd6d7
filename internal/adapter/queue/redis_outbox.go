package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/app/notify"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

const (
	DefaultKey  = "notifications:outbox"
	pollTimeout = 2 * time.Second
	// Enqueue runs on the request path, so it gets far less time than a dispatch.
	enqueueTimeout = 500 * time.Millisecond
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings; the caller falls back to the
// in-process outbox when it fails.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := newClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// newClient honours context deadlines so a hung server cannot hold a caller
// past its own timeout.
func newClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:                  cfg.Addr,
		Password:              cfg.Password,
		DB:                    cfg.DB,
		ContextTimeoutEnabled: true,
	})
}

// RedisOutbox keeps events in a Redis list so they survive a restart and
// can be consumed by any instance.
type RedisOutbox struct {
	client         *redis.Client
	key            string
	timeout        time.Duration
	enqueueTimeout time.Duration
}

var _ ports.Outbox = (*RedisOutbox)(nil)

func NewRedisOutbox(client *redis.Client, key string, timeout time.Duration) *RedisOutbox {
	if key == "" {
		key = DefaultKey
	}
	if timeout <= 0 {
		timeout = notify.DefaultNotifyTimeout
	}
	return &RedisOutbox{client: client, key: key, timeout: timeout, enqueueTimeout: enqueueTimeout}
}

func (o *RedisOutbox) Enqueue(ctx context.Context, events ...domain.NotificationEvent) {
	if len(events) == 0 {
		return
	}
	values := make([]interface{}, 0, len(events))
	for _, event := range events {
		raw, err := json.Marshal(event)
		if err != nil {
			zap.L().Warn("failed to encode notification event", zap.String("kind", string(event.Kind)), zap.Error(err))
			continue
		}
		values = append(values, raw)
	}
	if len(values) == 0 {
		return
	}

	// The request may already be finished; the push must not inherit its cancellation.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.enqueueTimeout)
	defer cancel()
	if err := o.client.LPush(pushCtx, o.key, values...).Err(); err != nil {
		zap.L().Warn("failed to enqueue notification events", zap.Int("count", len(values)), zap.Error(err))
	}
}

// Consume pops events and dispatches them with the given number of workers
// until ctx is cancelled.
func (o *RedisOutbox) Consume(ctx context.Context, dispatcher ports.NotificationDispatcher, workers int) {
	if workers <= 0 {
		workers = notify.DefaultOutboxWorkers
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			o.consumeLoop(ctx, dispatcher)
		}()
	}
	wg.Wait()
}

func (o *RedisOutbox) consumeLoop(ctx context.Context, dispatcher ports.NotificationDispatcher) {
	for {
		if ctx.Err() != nil {
			return
		}
		event, ok, err := o.pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Warn("failed to read notification outbox", zap.Error(err))
			time.Sleep(pollTimeout)
			continue
		}
		if !ok {
			continue
		}
		notify.Deliver(dispatcher, event, o.timeout)
	}
}

// pop reports ok=false when the list stayed empty for pollTimeout or the
// entry could not be decoded.
func (o *RedisOutbox) pop(ctx context.Context) (domain.NotificationEvent, bool, error) {
	var event domain.NotificationEvent
	res, err := o.client.BRPop(ctx, pollTimeout, o.key).Result()
	if errors.Is(err, redis.Nil) {
		return event, false, nil
	}
	if err != nil {
		return event, false, err
	}
	// res is [key, value]
	if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
		zap.L().Warn("dropping malformed notification event", zap.Error(err))
		return event, false, nil
	}
	return event, true, nil
}
