// Package nexcache is an in-process key-value cache with configurable
// eviction (lru, lfu, fifo, ttl, size), TTL expiry with a background sweep,
// dual capacity limits (entry count and byte size), tag and pattern
// querying, optional transparent compression, and metrics.
package nexcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/internal/dump"
	"github.com/nexchat/go-nexcache/internal/engine"
	"github.com/nexchat/go-nexcache/internal/reaper"
	"github.com/nexchat/go-nexcache/internal/telemetry"
	"github.com/nexchat/go-nexcache/model"
)

var (
	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("cache is closed")

	// ErrSerialize marks a value the serializer cannot represent.
	ErrSerialize = engine.ErrSerialize

	// ErrValueTooLarge marks a single entry bigger than MaxSize.
	ErrValueTooLarge = engine.ErrValueTooLarge

	// ErrBadSnapshot marks an import payload that cannot be applied.
	ErrBadSnapshot = engine.ErrBadSnapshot
)

// Manager is a caller-owned cache instance. There is no process-wide
// singleton: construct as many independent caches as needed and tear each
// one down with Close.
type Manager struct {
	engine    *engine.Engine
	reaper    reaper.Reaper
	telemetry telemetry.Logger
	logger    *slog.Logger
	cls       context.CancelFunc
	closed    atomic.Bool
}

// New builds a cache and starts its background sweep. A nil cfg means
// config.Default(); a nil logger means slog.Default(). The sweep timer and
// telemetry live until ctx is cancelled or Close is called.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Manager, error) {
	return newManager(ctx, cfg, logger, clock.New())
}

func newManager(ctx context.Context, cfg *config.Config, logger *slog.Logger, clk clock.Clock) (*Manager, error) {
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg = cfg.Clone()
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	eng := engine.New(cfg, logger, clk)

	return &Manager{
		engine:    eng,
		reaper:    reaper.New(ctx, cfg.CleanupInterval, cfg.SweepRate, logger, clk, eng),
		telemetry: telemetry.New(ctx, telemetryInterval(cfg), logger, clk, eng),
		logger:    logger,
		cls:       cancel,
	}, nil
}

// telemetryInterval is zero while metrics are disabled, which pauses the
// periodic telemetry line.
func telemetryInterval(c *config.Config) time.Duration {
	if !c.EnableMetrics {
		return 0
	}
	return c.MetricsLogInterval
}

// Set stores a value under key.
func (m *Manager) Set(key string, value any, opts ...Option) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return m.engine.Set(key, value, buildOptions(opts))
}

// Get returns the stored value and true, or nil and false on a miss.
// Expired entries are removed lazily and reported as misses.
func (m *Manager) Get(key string) (any, bool) {
	if m.closed.Load() {
		return nil, false
	}
	return m.engine.Get(key)
}

// Has reports existence without touching access order or counters.
func (m *Manager) Has(key string) bool {
	if m.closed.Load() {
		return false
	}
	return m.engine.Has(key)
}

// Delete removes an entry, reporting whether it existed.
func (m *Manager) Delete(key string) bool {
	if m.closed.Load() {
		return false
	}
	return m.engine.Delete(key)
}

// Clear empties the cache. Cumulative hit/miss/eviction counters survive.
func (m *Manager) Clear() {
	if m.closed.Load() {
		return
	}
	m.engine.Clear()
}

// GetMultiple looks up many keys at once; absent keys are left out.
func (m *Manager) GetMultiple(keys []string) map[string]any {
	if m.closed.Load() {
		return map[string]any{}
	}
	return m.engine.GetMultiple(keys)
}

// SetMultiple stores many pairs with shared options, joining any per-key
// write errors.
func (m *Manager) SetMultiple(values map[string]any, opts ...Option) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return m.engine.SetMultiple(values, buildOptions(opts))
}

// DeleteMultiple removes the given keys, returning how many existed.
func (m *Manager) DeleteMultiple(keys []string) int {
	if m.closed.Load() {
		return 0
	}
	return m.engine.DeleteMultiple(keys)
}

// Query returns snapshots of live entries matching all filters.
func (m *Manager) Query(f model.Filter) ([]*model.Entry, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return m.engine.Query(f)
}

// QueryKeys returns the keys of live entries matching all filters.
func (m *Manager) QueryKeys(f model.Filter) ([]string, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return m.engine.QueryKeys(f)
}

// DeleteByQuery removes every matching entry.
func (m *Manager) DeleteByQuery(f model.Filter) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	return m.engine.DeleteByQuery(f)
}

// GetByTag returns snapshots of live entries carrying the tag.
func (m *Manager) GetByTag(tag string) []*model.Entry {
	if m.closed.Load() {
		return nil
	}
	return m.engine.GetByTag(tag)
}

// DeleteByTag removes every live entry carrying the tag.
func (m *Manager) DeleteByTag(tag string) int {
	if m.closed.Load() {
		return 0
	}
	return m.engine.DeleteByTag(tag)
}

// Keys lists every live key in insertion order.
func (m *Manager) Keys() []string {
	if m.closed.Load() {
		return nil
	}
	return m.engine.Keys()
}

// Metrics returns a point-in-time activity snapshot.
func (m *Manager) Metrics() *model.Metrics {
	if m.closed.Load() {
		return &model.Metrics{}
	}
	return m.engine.Metrics()
}

// SweepMetrics reports background sweep activity.
func (m *Manager) SweepMetrics() (sweeps, removed int64) {
	return m.reaper.Metrics()
}

// Config returns a copy of the active configuration.
func (m *Manager) Config() *config.Config {
	return m.engine.Config()
}

// UpdateConfig merges a partial patch into the running configuration and
// propagates it everywhere it matters: an EvictionPolicy change rebuilds the
// strategy index, a CompressionLevel change swaps the codec, a
// CleanupInterval or SweepRate change resets the sweep, and a
// MetricsLogInterval or EnableMetrics change resets the telemetry line.
func (m *Manager) UpdateConfig(p config.Patch) (*config.Config, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	prev := m.engine.Config()
	next, err := m.engine.UpdateConfig(p)
	if err != nil {
		return nil, err
	}
	if next.CleanupInterval != prev.CleanupInterval || next.SweepRate != prev.SweepRate {
		m.reaper.Reset(next.CleanupInterval, next.SweepRate)
	}
	if telemetryInterval(next) != telemetryInterval(prev) {
		m.telemetry.Reset(telemetryInterval(next))
	}
	return next, nil
}

// Export captures the whole cache as a plain serializable snapshot.
func (m *Manager) Export() *model.Snapshot {
	if m.closed.Load() {
		return &model.Snapshot{}
	}
	return m.engine.Export()
}

// ExportJSON is Export marshaled to JSON.
func (m *Manager) ExportJSON() ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	data, err := json.Marshal(m.engine.Export())
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Import replaces the whole store with the snapshot contents. The current
// table is cleared first and the tracking structures are rebuilt for every
// imported entry.
func (m *Manager) Import(snap *model.Snapshot) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return m.engine.Import(snap)
}

// ImportJSON is Import from a JSON snapshot.
func (m *Manager) ImportJSON(data []byte) error {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	return m.Import(&snap)
}

// Dump writes the export snapshot to a checksummed file. A path ending in
// ".gz" is gzip-compressed.
func (m *Manager) Dump(path string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	data, err := m.ExportJSON()
	if err != nil {
		return err
	}
	return dump.Write(path, data)
}

// Load restores the cache from a file written by Dump.
func (m *Manager) Load(path string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	data, err := dump.Read(path)
	if err != nil {
		return err
	}
	return m.ImportJSON(data)
}

// Close stops the background sweep and telemetry. Further writes return
// ErrClosed, reads report misses. Close is idempotent.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.cls()
	return nil
}
