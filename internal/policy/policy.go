// Package policy implements the five interchangeable victim-selection
// algorithms. Each strategy owns only the bookkeeping its own algorithm
// needs; the engine rebuilds the active strategy from the entry table when
// the configured policy changes at runtime.
package policy

import (
	"sort"

	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/model"
)

// Strategy tracks entry lifecycle events and picks eviction victims.
// All methods are called under the engine lock.
type Strategy interface {
	Policy() config.EvictionPolicy

	// Add registers a freshly inserted entry.
	Add(e *model.Entry)

	// Touch registers a read of an existing entry.
	Touch(e *model.Entry)

	// Remove forgets a key after deletion, expiry, or eviction.
	Remove(key string)

	// Reset drops all bookkeeping.
	Reset()

	// Victim returns the key to evict next, false when the table is empty.
	Victim() (string, bool)

	Len() int
}

// New builds an empty strategy for the given policy. The policy is assumed
// validated by config.Validate.
func New(p config.EvictionPolicy) Strategy {
	switch p {
	case config.EvictLFU:
		return newLFU()
	case config.EvictFIFO:
		return newFIFO()
	case config.EvictTTL:
		return newTTLScan()
	case config.EvictSize:
		return newSizeScan()
	default:
		return newLRU()
	}
}

// Rebuild constructs a strategy of the given policy from live entries.
// Entries must be supplied in insertion order (ascending Seq). An lru
// strategy is seeded least recently accessed first instead, so recency
// recorded before a runtime policy switch survives the switch.
func Rebuild(p config.EvictionPolicy, entries []*model.Entry) Strategy {
	s := New(p)
	if p == config.EvictLRU {
		entries = byRecency(entries)
	}
	for _, e := range entries {
		s.Add(e)
	}
	return s
}

// byRecency orders entries by LastAccessed ascending, ties by Seq. The input
// slice is left untouched.
func byRecency(entries []*model.Entry) []*model.Entry {
	out := append([]*model.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastAccessed.Equal(out[j].LastAccessed) {
			return out[i].LastAccessed.Before(out[j].LastAccessed)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
