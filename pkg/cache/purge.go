package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Purgeable is a cache that can be emptied
type Purgeable interface {
	Purge(ctx context.Context) error
}

// Purger periodically empties reference caches so out-of-band edits to
// categories and attributes become visible without a restart
type Purger struct {
	cron    *cron.Cron
	targets map[string]Purgeable
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewPurger creates a purger over named caches
func NewPurger(targets map[string]Purgeable, log logrus.FieldLogger) *Purger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Purger{
		cron:    cron.New(),
		targets: targets,
		log:     log.WithField("component", "cache_purger"),
		timeout: 10 * time.Second,
	}
}

// Schedule registers the purge job with a standard five-field cron spec
// or a descriptor such as "@every 30m"
func (p *Purger) Schedule(spec string) error {
	if _, err := p.cron.AddFunc(spec, p.run); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", spec, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine
func (p *Purger) Start() {
	p.cron.Start()
}

// Stop halts the scheduler and waits for a running purge to finish or ctx to end
func (p *Purger) Stop(ctx context.Context) error {
	stopped := p.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PurgeNow empties every target and returns the first error
func (p *Purger) PurgeNow(ctx context.Context) error {
	var firstErr error
	for name, target := range p.targets {
		if err := target.Purge(ctx); err != nil {
			p.log.WithError(err).WithField("cache", name).Error("cache purge failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to purge %s: %w", name, err)
			}
			continue
		}
		p.log.WithField("cache", name).Debug("cache purged")
	}
	return firstErr
}

func (p *Purger) run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	_ = p.PurgeNow(ctx)
}
