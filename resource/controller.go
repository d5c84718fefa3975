// Package resource limits what a fill run may consume: I/O bandwidth and
// memory for block buffers.
//
// A Controller with a zero Config imposes no limits. A nil *Controller is
// valid and behaves the same way.
package resource

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned for a single reservation larger than the
// whole memory budget.
var ErrMemoryLimitExceeded = errors.New("resource: request exceeds memory limit")

// Config holds resource limits. Zero means unlimited.
type Config struct {
	// MemoryLimitBytes bounds the block buffers held at once.
	MemoryLimitBytes int64

	// IOLimitBytesPerSec caps combined write and read throughput.
	IOLimitBytesPerSec int64
}

// Controller enforces a Config for one run.
type Controller struct {
	cfg Config

	buffers  *semaphore.Weighted
	reserved atomic.Int64

	limiter   *rate.Limiter
	chunk     int
	throttled atomic.Int64
}

// NewController returns a Controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	if cfg.MemoryLimitBytes > 0 {
		c.buffers = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		// Burst is one second of budget.
		c.chunk = int(min(cfg.IOLimitBytesPerSec, math.MaxInt32))
		c.limiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), c.chunk)
	}
	return c
}

// Config returns the limits c enforces.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// Reserve holds n bytes of buffer memory until the returned release func is
// called. It waits for earlier reservations to be released when the budget
// is spent. Calling release more than once has no further effect.
func (c *Controller) Reserve(ctx context.Context, n int64) (release func(), err error) {
	if c == nil || n <= 0 {
		return func() {}, nil
	}
	if c.buffers != nil {
		if n > c.cfg.MemoryLimitBytes {
			return nil, fmt.Errorf("%w: %d > %d bytes", ErrMemoryLimitExceeded, n, c.cfg.MemoryLimitBytes)
		}
		if err := c.buffers.Acquire(ctx, n); err != nil {
			return nil, err
		}
	}
	c.reserved.Add(n)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.reserved.Add(-n)
			if c.buffers != nil {
				c.buffers.Release(n)
			}
		})
	}, nil
}

// Reserved returns the buffer memory currently held.
func (c *Controller) Reserved() int64 {
	if c == nil {
		return 0
	}
	return c.reserved.Load()
}

// Throttle blocks until n more bytes of I/O fit the configured rate.
// Requests above one second of budget are paid in pieces, so a 1 MiB block
// passes a limit below 1 MiB/s.
func (c *Controller) Throttle(ctx context.Context, n int) error {
	if c == nil || n <= 0 {
		return nil
	}
	c.throttled.Add(int64(n))
	if c.limiter == nil {
		return nil
	}
	for n > 0 {
		step := min(n, c.chunk)
		if err := c.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// IOBytes returns the bytes passed through Throttle so far.
func (c *Controller) IOBytes() int64 {
	if c == nil {
		return 0
	}
	return c.throttled.Load()
}
