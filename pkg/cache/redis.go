package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RedisOptions configures the shared Redis client
type RedisOptions struct {
	URL        string
	Password   string
	DB         int
	MaxRetries int
	PoolSize   int
}

// NewRedisClient parses the URL, applies overrides and verifies the connection
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if opts.Password != "" {
		parsed.Password = opts.Password
	}
	if opts.DB > 0 {
		parsed.DB = opts.DB
	}
	if opts.MaxRetries > 0 {
		parsed.MaxRetries = opts.MaxRetries
	}
	if opts.PoolSize > 0 {
		parsed.PoolSize = opts.PoolSize
	}
	parsed.DialTimeout = 5 * time.Second
	parsed.ReadTimeout = 3 * time.Second
	parsed.WriteTimeout = 3 * time.Second

	client := redis.NewClient(parsed)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisCache stores JSON encoded values under a name prefix
type RedisCache[V any] struct {
	name     string
	client   *redis.Client
	ttl      time.Duration
	log      logrus.FieldLogger
	recorder Recorder
}

// NewRedisCache creates a cache whose keys are prefixed with "stores:<name>:"
func NewRedisCache[V any](name string, client *redis.Client, ttl time.Duration, log logrus.FieldLogger, recorder Recorder) *RedisCache[V] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisCache[V]{
		name:     name,
		client:   client,
		ttl:      ttl,
		log:      log.WithField("cache", name),
		recorder: recorderOrNop(recorder),
	}
}

func (c *RedisCache[V]) key(k string) string {
	return "stores:" + c.name + ":" + k
}

// Get implements Cache
func (c *RedisCache[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		c.recorder.RecordCacheMiss(c.name)
		return zero, false
	} else if err != nil {
		c.log.WithError(err).Warn("redis get failed")
		c.recorder.RecordCacheMiss(c.name)
		return zero, false
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		// drop corrupt entries
		c.client.Del(ctx, c.key(key))
		c.log.WithError(err).Warn("failed to unmarshal cached value")
		c.recorder.RecordCacheMiss(c.name)
		return zero, false
	}
	c.recorder.RecordCacheHit(c.name)
	return v, true
}

// Set implements Cache
func (c *RedisCache[V]) Set(ctx context.Context, key string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).Warn("failed to marshal value for cache")
		return
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("redis set failed")
	}
}

// Delete implements Cache
func (c *RedisCache[V]) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Purge implements Cache by deleting every key under the prefix
func (c *RedisCache[V]) Purge(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.key("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis purge failed: %w", err)
	}
	return nil
}
