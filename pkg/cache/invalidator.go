package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// InvalidationChannel carries invalidation signals between instances
const InvalidationChannel = "stores:cache:invalidate"

type invalidation struct {
	Cache string `json:"cache"`
	Key   string `json:"key,omitempty"`
	Purge bool   `json:"purge,omitempty"`
}

// evictable is the part of a local cache the invalidator drives
type evictable interface {
	Delete(ctx context.Context, key string) error
	Purge(ctx context.Context) error
}

// Invalidator evicts entries of registered local caches when another instance
// publishes an invalidation, and publishes this instance's invalidations
type Invalidator struct {
	client *redis.Client
	log    logrus.FieldLogger

	mu     sync.RWMutex
	locals map[string]evictable
	cancel context.CancelFunc
	closed bool
}

// NewInvalidator creates an invalidator on the given client
func NewInvalidator(client *redis.Client, log logrus.FieldLogger) *Invalidator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Invalidator{
		client: client,
		log:    log.WithField("component", "cache_invalidator"),
		locals: make(map[string]evictable),
	}
}

func (i *Invalidator) register(name string, local evictable) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.locals[name] = local
}

// Publish broadcasts the eviction of a key
func (i *Invalidator) Publish(ctx context.Context, cacheName, key string) error {
	return i.publish(ctx, invalidation{Cache: cacheName, Key: key})
}

// PublishPurge broadcasts the purge of a whole cache
func (i *Invalidator) PublishPurge(ctx context.Context, cacheName string) error {
	return i.publish(ctx, invalidation{Cache: cacheName, Purge: true})
}

func (i *Invalidator) publish(ctx context.Context, msg invalidation) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation: %w", err)
	}
	if err := i.client.Publish(ctx, InvalidationChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Start subscribes and applies invalidations until ctx is cancelled or Close is called.
// The subscription is confirmed before Start returns. The returned channel is
// closed once the listener has stopped.
func (i *Invalidator) Start(ctx context.Context) (<-chan struct{}, error) {
	subCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.cancel = cancel
	i.mu.Unlock()

	pubsub := i.client.Subscribe(subCtx, InvalidationChannel)
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", InvalidationChannel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				i.apply(subCtx, msg.Payload)
			}
		}
	}()
	return done, nil
}

func (i *Invalidator) apply(ctx context.Context, payload string) {
	var msg invalidation
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		i.log.WithError(err).Warn("ignoring malformed invalidation")
		return
	}
	i.mu.RLock()
	local, ok := i.locals[msg.Cache]
	i.mu.RUnlock()
	if !ok {
		return
	}
	if msg.Purge {
		_ = local.Purge(ctx)
		return
	}
	_ = local.Delete(ctx, msg.Key)
}

// Close stops the listener
func (i *Invalidator) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	if i.cancel != nil {
		i.cancel()
	}
	return nil
}
