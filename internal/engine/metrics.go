package engine

import (
	"sort"

	"github.com/nexchat/go-nexcache/model"
)

const topKeysLimit = 10

// Metrics builds a snapshot. Entry count and byte totals are recomputed
// from the table here rather than trusting the incremental accounting, so
// the table stays the single source of truth for aggregates.
func (e *Engine) Metrics() *model.Metrics {
	hits, misses, evictions, expirations, compressions, avg := e.counters.snapshot()

	e.mu.RLock()
	defer e.mu.RUnlock()

	var totalSize int64
	top := make([]model.KeyAccess, 0, len(e.entries))
	seqs := make(map[string]uint64, len(e.entries))
	for key, ent := range e.entries {
		totalSize += ent.Size
		top = append(top, model.KeyAccess{Key: key, AccessCount: ent.AccessCount})
		seqs[key] = ent.Seq
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].AccessCount != top[j].AccessCount {
			return top[i].AccessCount > top[j].AccessCount
		}
		return seqs[top[i].Key] < seqs[top[j].Key]
	})
	if len(top) > topKeysLimit {
		top = top[:topKeysLimit]
	}

	m := &model.Metrics{
		Hits:          hits,
		Misses:        misses,
		TotalEntries:  len(e.entries),
		TotalSize:     totalSize,
		Evictions:     evictions,
		Expirations:   expirations,
		Compressions:  compressions,
		AvgAccessTime: avg,
		TopKeys:       top,
	}
	if ops := hits + misses; ops > 0 {
		m.HitRate = float64(hits) / float64(ops)
	}
	if e.cfg.MaxSize > 0 {
		m.MemoryUsage = float64(totalSize) / float64(e.cfg.MaxSize)
	}
	return m
}

func sortBySeq(entries []*model.Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
}
