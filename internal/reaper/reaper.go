// Package reaper runs the periodic TTL sweep. It is independent of capacity
// eviction: entries removed here are expirations, never evictions, and the
// sweep is best-effort — one bad entry never aborts the rest of the pass.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/ratelimit"
)

// Table is the slice of the engine the sweep needs.
type Table interface {
	ExpiredKeys() []string
	RemoveExpired(key string) bool
	Len() int
}

type Reaper interface {
	// Reset re-arms the sweep timer and replaces the removal rate cap.
	Reset(interval time.Duration, rate int)
	Metrics() (sweeps, removed int64)
	Close() error
}

// settings travels over resetCh; both fields are applied by the run loop.
type settings struct {
	interval time.Duration
	rate     int
}

type Sweeper struct {
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger
	clk      clock.Clock
	table    Table
	limiter  ratelimit.Limiter
	counters *sweepCounters
	resetCh  chan settings
	interval time.Duration
	rate     int
}

// New starts the sweep loop. rate caps removals per second across sweeps so
// a large expired backlog cannot monopolize the table lock.
func New(ctx context.Context, interval time.Duration, rate int, logger *slog.Logger, clk clock.Clock, table Table) *Sweeper {
	ctx, cancel := context.WithCancel(ctx)
	if rate < 1 {
		rate = 1
	}
	s := &Sweeper{
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		clk:      clk,
		table:    table,
		limiter:  ratelimit.New(rate),
		counters: newSweepCounters(),
		resetCh:  make(chan settings, 1),
		interval: interval,
		rate:     rate,
	}
	go s.run()
	return s
}

func (s *Sweeper) Reset(interval time.Duration, rate int) {
	if interval <= 0 {
		return
	}
	if rate < 1 {
		rate = 1
	}
	select {
	case s.resetCh <- settings{interval: interval, rate: rate}:
	case <-s.ctx.Done():
	}
}

func (s *Sweeper) Metrics() (sweeps, removed int64) {
	return s.counters.snapshot()
}

func (s *Sweeper) Close() error {
	s.cancel()
	return nil
}

func (s *Sweeper) run() {
	s.logger.Info("ttl reaper is running", "interval", s.interval.String())
	defer s.logger.Info("ttl reaper is stopped")

	ticker := s.clk.Ticker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case next := <-s.resetCh:
			if next.interval != s.interval {
				s.interval = next.interval
				ticker.Reset(next.interval)
			}
			if next.rate != s.rate {
				s.rate = next.rate
				s.limiter = ratelimit.New(next.rate)
			}
		case <-ticker.C:
			if s.table.Len() > 0 {
				s.sweep()
			}
		}
	}
}

// sweep collects expired keys, then removes them one by one under the rate
// cap. Keys resurrected by a concurrent write in between are skipped by
// RemoveExpired's re-check.
func (s *Sweeper) sweep() {
	keys := s.table.ExpiredKeys()
	s.counters.sweeps.Add(1)
	if len(keys) == 0 {
		return
	}

	removed := 0
	for _, key := range keys {
		select {
		case <-s.ctx.Done():
			return
		default:
		}
		s.limiter.Take()
		if s.table.RemoveExpired(key) {
			removed++
		}
	}
	s.counters.removed.Add(int64(removed))

	s.logger.Debug("ttl sweep finished", "collected", len(keys), "removed", removed)
}
