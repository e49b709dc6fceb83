// Package resource bounds the memory held by built indexes and the number of
// index builds running at once.
//
// A single Controller is typically shared by every IndexCache and Live index in
// a process so that the budgets are global.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for memory held by cached indexes.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxConcurrentBuilds is the maximum number of index builds in flight.
	// If 0, defaults to 1.
	MaxConcurrentBuilds int64
}

// Controller manages global resources (memory, build concurrency).
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	buildSem *semaphore.Weighted
	builds   atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentBuilds <= 0 {
		cfg.MaxConcurrentBuilds = 1
	}

	c := &Controller{
		cfg:      cfg,
		buildSem: semaphore.NewWeighted(cfg.MaxConcurrentBuilds),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves memory, blocking until it is available or ctx is
// canceled. Requests larger than the limit fail immediately with ErrOverLimit.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if bytes > c.cfg.MemoryLimitBytes {
			return ErrOverLimit
		}
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireBuild reserves a build slot. Blocks if all slots are busy.
func (c *Controller) AcquireBuild(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.buildSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.builds.Add(1)
	return nil
}

// ReleaseBuild releases a build slot.
func (c *Controller) ReleaseBuild() {
	if c == nil {
		return
	}
	c.builds.Add(-1)
	c.buildSem.Release(1)
}

// ActiveBuilds returns the number of builds holding a slot.
func (c *Controller) ActiveBuilds() int64 {
	if c == nil {
		return 0
	}
	return c.builds.Load()
}
