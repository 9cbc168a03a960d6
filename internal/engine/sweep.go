package engine

// ExpiredKeys lists every key whose entry has outlived its TTL at this
// instant. The background sweep uses it to collect candidates without
// holding the write lock for the whole scan.
func (e *Engine) ExpiredKeys() []string {
	now := e.clk.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	var keys []string
	for key, ent := range e.entries {
		if ent.Expired(now) {
			keys = append(keys, key)
		}
	}
	return keys
}

// RemoveExpired deletes the entry only if it is still present and still
// expired, so a sweep cannot race away an entry that was rewritten between
// collection and removal. Expiry removal does not count as an eviction.
func (e *Engine) RemoveExpired(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.entries[key]
	if !ok || !ent.Expired(e.clk.Now()) {
		return false
	}
	e.removeLocked(ent)
	e.counters.expirations.Add(1)
	return true
}
