package engine

// ensureCapacityLocked evicts entries under the active policy until both
// limits would hold after inserting `incoming` bytes: first the entry count,
// then the byte size. A single write can cascade into many evictions.
// Both loops stop when no victim can be produced; an entry larger than
// MaxSize on its own is rejected before this runs, so the byte loop cannot
// spin on an empty table.
func (e *Engine) ensureCapacityLocked(incoming int64) {
	for len(e.entries) >= e.cfg.MaxEntries {
		if !e.evictOneLocked() {
			return
		}
	}
	for e.bytes+incoming > e.cfg.MaxSize {
		if !e.evictOneLocked() {
			return
		}
	}
}

// evictOneLocked removes one victim under the current policy. Returns false
// when the strategy has nothing left to offer.
func (e *Engine) evictOneLocked() bool {
	key, ok := e.strategy.Victim()
	if !ok {
		return false
	}
	ent, present := e.entries[key]
	if !present {
		// strategy drift; drop the stale index record and report progress
		e.strategy.Remove(key)
		return true
	}
	e.removeLocked(ent)
	e.counters.evictions.Add(1)
	return true
}
