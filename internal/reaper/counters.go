package reaper

import "sync/atomic"

type sweepCounters struct {
	sweeps  atomic.Int64 // completed sweep passes
	removed atomic.Int64 // entries removed by sweeps
}

func newSweepCounters() *sweepCounters {
	return &sweepCounters{}
}

func (c *sweepCounters) snapshot() (sweeps, removed int64) {
	return c.sweeps.Load(), c.removed.Load()
}
