// Package engine holds the entry table and everything that mutates it:
// the write/read paths, capacity enforcement, the query engine, metrics,
// and the export/import snapshot.
//
// Locking: a single RWMutex guards the table, the active eviction strategy,
// and the byte accounting. Serialization and compression run outside the
// lock, so two concurrent writes to the same key may interleave there; the
// write that completes last wins. That race is accepted and documented, not
// hidden behind per-key locking.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/internal/codec"
	"github.com/nexchat/go-nexcache/internal/policy"
	"github.com/nexchat/go-nexcache/model"
)

var (
	// ErrSerialize marks a value the JSON encoder cannot represent.
	// The write is aborted with no state mutated.
	ErrSerialize = errors.New("serialize value")

	// ErrValueTooLarge marks a single entry that exceeds MaxSize on its
	// own. No amount of eviction can make room for it, so the write is
	// rejected instead of spinning or overflowing.
	ErrValueTooLarge = errors.New("value exceeds cache max size")

	// ErrBadSnapshot marks an import payload the engine cannot apply.
	ErrBadSnapshot = errors.New("invalid snapshot")
)

type Engine struct {
	mu       sync.RWMutex
	cfg      *config.Config
	entries  map[string]*model.Entry
	strategy policy.Strategy
	seq      uint64
	bytes    int64 // running sum of entry sizes, kept for capacity checks

	logger   *slog.Logger
	clk      clock.Clock
	codecs   codec.Registry
	counters *counters
}

func New(cfg *config.Config, logger *slog.Logger, clk clock.Clock) *Engine {
	e := &Engine{
		cfg:      cfg,
		entries:  make(map[string]*model.Entry),
		strategy: policy.New(cfg.EvictionPolicy),
		logger:   logger,
		clk:      clk,
		codecs:   codec.NewRegistry(codec.NewFlate(cfg.CompressionLevel)),
		counters: newCounters(),
	}
	e.counters.enabled.Store(cfg.EnableMetrics)
	return e
}

// Set serializes and stores a value. Serialization failure is the only error
// a caller sees besides ErrValueTooLarge; compression trouble degrades to
// storing the plain payload.
func (e *Engine) Set(key string, value any, opts model.WriteOptions) error {
	start := e.clk.Now()

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: key %q: %w", ErrSerialize, key, err)
	}

	stored := model.Stored{Bytes: payload}
	size := int64(len(payload))
	compressed := false

	cfg := e.Config()
	if cfg.EnableCompression && (opts.Compress || size >= cfg.CompressionThreshold) {
		// Runs outside the table lock; a concurrent Set on the same key
		// may finish first and be silently overwritten below.
		if c, ok := e.codecRegistry().Lookup(model.CompressionFlate); ok {
			if packed, cerr := c.Compress(payload); cerr != nil {
				e.logger.Warn("compression failed, storing plain", "key", key, "error", cerr)
			} else if int64(len(packed)) < size {
				stored = model.Stored{Bytes: packed, Compression: c.Name()}
				size = int64(len(packed))
				compressed = true
			}
		}
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = cfg.DefaultTTL
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if size > e.cfg.MaxSize {
		return fmt.Errorf("%w: key %q: %d > %d bytes", ErrValueTooLarge, key, size, e.cfg.MaxSize)
	}

	e.ensureCapacityLocked(size)

	if old, ok := e.entries[key]; ok {
		e.removeLocked(old)
	}

	now := e.clk.Now()
	e.seq++
	ent := &model.Entry{
		Key:          key,
		Stored:       stored,
		Size:         size,
		CreatedAt:    now,
		LastAccessed: now,
		TTL:          ttl,
		Seq:          e.seq,
	}
	if len(opts.Tags) > 0 {
		ent.Tags = append([]string(nil), opts.Tags...)
	}
	if len(opts.Metadata) > 0 {
		ent.Metadata = make(map[string]any, len(opts.Metadata))
		for k, v := range opts.Metadata {
			ent.Metadata[k] = v
		}
	}

	e.entries[key] = ent
	e.bytes += size
	e.strategy.Add(ent)

	if compressed {
		e.counters.compressions.Add(1)
	}
	e.counters.observeAccess(e.clk.Now().Sub(start))
	return nil
}

// Get returns the decoded value, or false on a miss. An expired entry is
// removed lazily and reported as a miss. Reads never fail: decompression
// trouble hands back the raw stored bytes, decode trouble degrades to a miss.
func (e *Engine) Get(key string) (any, bool) {
	start := e.clk.Now()

	e.mu.Lock()
	ent, ok := e.entries[key]
	if !ok {
		e.mu.Unlock()
		e.counters.miss()
		return nil, false
	}
	now := e.clk.Now()
	if ent.Expired(now) {
		// lazy expiry, not an eviction
		e.removeLocked(ent)
		e.counters.expirations.Add(1)
		e.mu.Unlock()
		e.counters.miss()
		return nil, false
	}
	ent.Touch(now)
	e.strategy.Touch(ent)
	stored := ent.Stored
	codecs := e.codecs
	e.mu.Unlock()

	plain := stored.Bytes
	if stored.Compressed() {
		// Suspension point: the entry may be replaced or deleted while
		// we decompress. We still serve the bytes read above.
		c, found := codecs.Lookup(stored.Compression)
		if !found {
			e.logger.Warn("unknown compression codec, returning raw payload",
				"key", key, "codec", string(stored.Compression))
			e.counters.hit(e.clk.Now().Sub(start))
			return stored.Bytes, true
		}
		out, err := c.Decompress(stored.Bytes)
		if err != nil {
			// Known failure mode: the caller receives the still
			// compressed payload rather than an error.
			e.logger.Warn("decompression failed, returning raw payload", "key", key, "error", err)
			e.counters.hit(e.clk.Now().Sub(start))
			return stored.Bytes, true
		}
		plain = out
	}

	var value any
	if err := json.Unmarshal(plain, &value); err != nil {
		e.logger.Warn("decode failed, treating as miss", "key", key, "error", err)
		e.counters.miss()
		return nil, false
	}

	e.counters.hit(e.clk.Now().Sub(start))
	return value, true
}

// Has reports whether a live, non-expired entry exists. It is a pure
// predicate: no access counters, no recency reordering, no lazy removal.
func (e *Engine) Has(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.entries[key]
	return ok && !ent.Expired(e.clk.Now())
}

// Delete removes an entry, reporting whether it existed.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entries[key]
	if !ok {
		return false
	}
	e.removeLocked(ent)
	return true
}

// Clear drops every entry and the strategy bookkeeping. Cumulative counters
// (hits, misses, evictions) survive a Clear.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = make(map[string]*model.Entry)
	e.strategy.Reset()
	e.bytes = 0
}

// GetMultiple looks up each key; missing or expired keys are absent from
// the result map.
func (e *Engine) GetMultiple(keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		if v, ok := e.Get(key); ok {
			out[key] = v
		}
	}
	return out
}

// SetMultiple stores each pair with shared options. Failed writes do not
// stop the rest; the joined error reports every failure.
func (e *Engine) SetMultiple(values map[string]any, opts model.WriteOptions) error {
	var errs []error
	for key, value := range values {
		if err := e.Set(key, value, opts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeleteMultiple removes the given keys, returning how many existed.
func (e *Engine) DeleteMultiple(keys []string) int {
	deleted := 0
	for _, key := range keys {
		if e.Delete(key) {
			deleted++
		}
	}
	return deleted
}

// Len is the live entry count.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// Keys lists every live key in insertion order.
func (e *Engine) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	now := e.clk.Now()
	ordered := e.orderedLocked()
	keys := make([]string, 0, len(ordered))
	for _, ent := range ordered {
		if ent.Expired(now) {
			continue
		}
		keys = append(keys, ent.Key)
	}
	return keys
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() *config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Clone()
}

// UpdateConfig merges a partial patch into the active configuration.
// A policy change rebuilds the strategy index from the entry table, so the
// new policy is correct on the very next eviction.
func (e *Engine) UpdateConfig(p config.Patch) (*config.Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.cfg.Apply(p)
	if err != nil {
		return nil, err
	}

	if next.EvictionPolicy != e.cfg.EvictionPolicy {
		e.strategy = policy.Rebuild(next.EvictionPolicy, e.orderedLocked())
	}
	if next.CompressionLevel != e.cfg.CompressionLevel {
		e.codecs = codec.NewRegistry(codec.NewFlate(next.CompressionLevel))
	}
	e.cfg = next
	e.counters.enabled.Store(next.EnableMetrics)
	return next.Clone(), nil
}

// codecRegistry reads the active registry under the lock; UpdateConfig may
// swap it when the compression level changes.
func (e *Engine) codecRegistry() codec.Registry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.codecs
}

// removeLocked deletes an entry from the table, the byte accounting, and
// the strategy. Caller holds the write lock.
func (e *Engine) removeLocked(ent *model.Entry) {
	delete(e.entries, ent.Key)
	e.bytes -= ent.Size
	e.strategy.Remove(ent.Key)
}

// orderedLocked returns live entries in insertion order. Caller holds at
// least the read lock.
func (e *Engine) orderedLocked() []*model.Entry {
	out := make([]*model.Entry, 0, len(e.entries))
	for _, ent := range e.entries {
		out = append(out, ent)
	}
	sortBySeq(out)
	return out
}
