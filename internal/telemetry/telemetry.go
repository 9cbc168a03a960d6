// Package telemetry periodically logs a cache activity summary: table
// totals plus hit/eviction deltas since the previous line.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/nexchat/go-nexcache/internal/shared/bytesutil"
	"github.com/nexchat/go-nexcache/model"
)

type MetricsSource interface {
	Metrics() *model.Metrics
}

type Logger interface {
	// Reset changes the logging period; a non-positive interval pauses
	// the log line until a later Reset re-enables it.
	Reset(interval time.Duration)
	Close() error
}

type Logs struct {
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	clk     clock.Clock
	source  MetricsSource
	resetCh chan time.Duration
}

// New starts the telemetry loop. A non-positive interval leaves the logger
// paused; Reset can enable it later and Close is always valid.
func New(ctx context.Context, interval time.Duration, logger *slog.Logger, clk clock.Clock, source MetricsSource) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	l := &Logs{
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		clk:     clk,
		source:  source,
		resetCh: make(chan time.Duration, 1),
	}
	go l.loop(interval)
	return l
}

func (l *Logs) Reset(interval time.Duration) {
	select {
	case l.resetCh <- interval:
	case <-l.ctx.Done():
	}
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

func (l *Logs) loop(interval time.Duration) {
	var (
		ticker *clock.Ticker
		tick   <-chan time.Time
	)
	arm := func(interval time.Duration) {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if interval > 0 {
			ticker = l.clk.Ticker(interval)
			tick = ticker.C
		}
	}
	arm(interval)
	defer arm(0)

	prev := &model.Metrics{}

	for {
		select {
		case <-l.ctx.Done():
			return
		case next := <-l.resetCh:
			if next != interval {
				interval = next
				arm(next)
			}
		case <-tick:
			cur := l.source.Metrics()
			l.logger.Info("cache telemetry",
				"interval", interval.String(),
				"entries", cur.TotalEntries,
				"size", bytesutil.FmtMem(uint64(cur.TotalSize)),
				"hit_rate", cur.HitRate,
				"hits", cur.Hits-prev.Hits,
				"misses", cur.Misses-prev.Misses,
				"evictions", cur.Evictions-prev.Evictions,
				"expirations", cur.Expirations-prev.Expirations,
				"compressions", cur.Compressions-prev.Compressions,
				"avg_access", cur.AvgAccessTime.String(),
			)
			prev = cur
		}
	}
}
