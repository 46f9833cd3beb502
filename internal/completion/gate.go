package completion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Gate is the single shared pacing token for the completion endpoint. Every
// worker acquires it before a call, so the minimum inter-call interval holds
// globally rather than per worker, and concurrent calls stay under the slot
// limit the provider allows.
type Gate struct {
	minInterval time.Duration
	slots       chan struct{}

	mu       sync.Mutex
	lastCall time.Time

	totalCalls int64
}

// NewGate creates a gate with the given minimum interval between calls and
// maximum concurrent in-flight calls. maxInFlight < 1 means 1.
func NewGate(minInterval time.Duration, maxInFlight int) *Gate {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Gate{
		minInterval: minInterval,
		slots:       make(chan struct{}, maxInFlight),
	}
}

// Acquire blocks until a call slot is free and the inter-call interval has
// elapsed, or the context is done.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	g.mu.Lock()
	for {
		wait := g.minInterval - time.Since(g.lastCall)
		if wait <= 0 {
			break
		}
		// Recompute after sleeping: another waiter may have claimed the
		// interval while the lock was released.
		g.mu.Unlock()
		select {
		case <-time.After(wait):
			g.mu.Lock()
		case <-ctx.Done():
			<-g.slots
			return ctx.Err()
		}
	}
	g.lastCall = time.Now()
	g.mu.Unlock()
	return nil
}

// Release frees the slot after the call completes.
func (g *Gate) Release() {
	atomic.AddInt64(&g.totalCalls, 1)
	select {
	case <-g.slots:
	default:
		// Release without acquire; nothing to free.
	}
}

// Calls returns the number of completed acquire/release cycles.
func (g *Gate) Calls() int64 {
	return atomic.LoadInt64(&g.totalCalls)
}
