package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"
)

const meterName = "github.com/platinummonkey/stores/pkg/services"

// Pool bounds how many blocking database operations run at once
type Pool struct {
	sem      *semaphore.Weighted
	size     int64
	inFlight metric.Int64UpDownCounter
	waitTime metric.Float64Histogram
}

// NewPool creates a pool with size slots
func NewPool(size int) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}

	meter := otel.Meter(meterName)
	inFlight, err := meter.Int64UpDownCounter("stores.pool.in_flight",
		metric.WithDescription("Operations currently holding a pool slot"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool counter: %w", err)
	}
	waitTime, err := meter.Float64Histogram("stores.pool.wait",
		metric.WithDescription("Time spent waiting for a pool slot"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool histogram: %w", err)
	}

	return &Pool{
		sem:      semaphore.NewWeighted(int64(size)),
		size:     int64(size),
		inFlight: inFlight,
		waitTime: waitTime,
	}, nil
}

// Size returns the number of slots
func (p *Pool) Size() int {
	return int(p.size)
}

// Run waits for a free slot, then runs fn. It returns ctx.Err() if ctx ends first.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	start := time.Now()
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for worker: %w", err)
	}
	defer p.sem.Release(1)
	p.waitTime.Record(ctx, time.Since(start).Seconds())

	p.inFlight.Add(ctx, 1)
	defer p.inFlight.Add(ctx, -1)

	return fn(ctx)
}

// Call runs fn on p and returns its result
func Call[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Run(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}
