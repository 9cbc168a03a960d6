package engine

import (
	"fmt"
	"regexp"
	"time"

	"github.com/nexchat/go-nexcache/model"
)

// Query returns clones of every live entry matching all supplied filters.
// Results are snapshots in insertion order, never live views into the table.
func (e *Engine) Query(f model.Filter) ([]*model.Entry, error) {
	var re *regexp.Regexp
	if f.KeyPattern != "" {
		var err error
		if re, err = regexp.Compile(f.KeyPattern); err != nil {
			return nil, fmt.Errorf("compile key pattern %q: %w", f.KeyPattern, err)
		}
	}

	now := e.clk.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []*model.Entry
	for _, ent := range e.entries {
		if ent.Expired(now) {
			continue
		}
		if matches(ent, f, re, now) {
			out = append(out, ent.Clone())
		}
	}
	sortBySeq(out)
	return out, nil
}

// QueryKeys is Query reduced to the matching keys.
func (e *Engine) QueryKeys(f model.Filter) ([]string, error) {
	entries, err := e.Query(f)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, ent := range entries {
		keys[i] = ent.Key
	}
	return keys, nil
}

// DeleteByQuery removes every matching entry, returning how many went away.
func (e *Engine) DeleteByQuery(f model.Filter) (int, error) {
	keys, err := e.QueryKeys(f)
	if err != nil {
		return 0, err
	}
	return e.DeleteMultiple(keys), nil
}

// GetByTag returns clones of live entries carrying the tag.
func (e *Engine) GetByTag(tag string) []*model.Entry {
	entries, _ := e.Query(model.Filter{Tags: []string{tag}})
	return entries
}

// DeleteByTag removes every live entry carrying the tag.
func (e *Engine) DeleteByTag(tag string) int {
	n, _ := e.DeleteByQuery(model.Filter{Tags: []string{tag}})
	return n
}

// matches applies every supplied condition; the tag condition is ANY-of.
func matches(ent *model.Entry, f model.Filter, re *regexp.Regexp, now time.Time) bool {
	if len(f.Tags) > 0 && !ent.HasAnyTag(f.Tags) {
		return false
	}
	if re != nil && !re.MatchString(ent.Key) {
		return false
	}
	if f.MinAccessCount > 0 && ent.AccessCount < f.MinAccessCount {
		return false
	}
	if f.MaxAge > 0 && now.Sub(ent.CreatedAt) > f.MaxAge {
		return false
	}
	if f.MinSize > 0 && ent.Size < f.MinSize {
		return false
	}
	if f.MaxSize > 0 && ent.Size > f.MaxSize {
		return false
	}
	return true
}
