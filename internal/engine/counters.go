package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// counters aggregates cumulative activity. When disabled, every method is a
// cheap no-op so the hot paths stay branch-light.
type counters struct {
	enabled      atomic.Bool
	hits         atomic.Int64
	misses       atomic.Int64
	evictions    atomic.Int64
	expirations  atomic.Int64
	compressions atomic.Int64

	access meanTimer
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) hit(elapsed time.Duration) {
	if !c.enabled.Load() {
		return
	}
	c.hits.Add(1)
	c.access.observe(elapsed)
}

func (c *counters) miss() {
	if !c.enabled.Load() {
		return
	}
	c.misses.Add(1)
}

func (c *counters) observeAccess(elapsed time.Duration) {
	if !c.enabled.Load() {
		return
	}
	c.access.observe(elapsed)
}

func (c *counters) snapshot() (hits, misses, evictions, expirations, compressions int64, avg time.Duration) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load(),
		c.expirations.Load(), c.compressions.Load(), c.access.mean()
}

// meanTimer maintains a running average latency with the incremental update
// avg' = (avg*(n-1) + sample) / n.
type meanTimer struct {
	mu  sync.Mutex
	avg float64 // nanoseconds
	n   int64
}

func (t *meanTimer) observe(d time.Duration) {
	t.mu.Lock()
	t.n++
	t.avg += (float64(d.Nanoseconds()) - t.avg) / float64(t.n)
	t.mu.Unlock()
}

func (t *meanTimer) mean() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.avg)
}
