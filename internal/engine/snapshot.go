package engine

import (
	"fmt"

	"github.com/nexchat/go-nexcache/internal/policy"
	"github.com/nexchat/go-nexcache/model"
)

// Export captures the whole engine as a plain serializable snapshot:
// every entry (cloned), the active configuration, and a metrics snapshot.
func (e *Engine) Export() *model.Snapshot {
	metrics := e.Metrics()

	e.mu.RLock()
	defer e.mu.RUnlock()

	entries := make([]*model.Entry, 0, len(e.entries))
	for _, ent := range e.entries {
		entries = append(entries, ent.Clone())
	}
	sortBySeq(entries)

	return &model.Snapshot{
		Entries: entries,
		Config:  e.cfg.Clone(),
		Metrics: metrics,
	}
}

// Import replaces the whole store with the snapshot contents: the table is
// cleared first, the snapshot config (if present) is applied, and the
// strategy index is rebuilt for every imported entry. Entry timestamps and
// access counters are preserved, so already-expired entries stay expired.
func (e *Engine) Import(snap *model.Snapshot) error {
	if snap == nil {
		return ErrBadSnapshot
	}

	cfg := e.Config()
	if snap.Config != nil {
		cfg = snap.Config.Clone()
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
	e.counters.enabled.Store(cfg.EnableMetrics)
	e.entries = make(map[string]*model.Entry, len(snap.Entries))
	e.bytes = 0
	e.seq = 0

	for _, ent := range snap.Entries {
		if ent == nil || ent.Key == "" {
			continue
		}
		cp := ent.Clone()
		if cp.TTL <= 0 {
			cp.TTL = cfg.DefaultTTL
		}
		if cp.Size <= 0 {
			cp.Size = int64(len(cp.Stored.Bytes))
		}
		e.seq++
		cp.Seq = e.seq
		e.entries[cp.Key] = cp
		e.bytes += cp.Size
	}

	e.strategy = policy.Rebuild(cfg.EvictionPolicy, e.orderedLocked())
	return nil
}
