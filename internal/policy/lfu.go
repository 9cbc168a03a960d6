package policy

import (
	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/model"
)

type lfuNode struct {
	freq int64
	seq  uint64
}

// lfu keeps a per-key frequency counter. Victim selection scans for the
// minimum frequency; ties are broken by the lowest insertion sequence so the
// outcome does not depend on map iteration order.
type lfu struct {
	freqs map[string]*lfuNode
}

func newLFU() *lfu {
	return &lfu{freqs: make(map[string]*lfuNode)}
}

func (s *lfu) Policy() config.EvictionPolicy { return config.EvictLFU }

func (s *lfu) Add(e *model.Entry) {
	s.freqs[e.Key] = &lfuNode{freq: e.AccessCount, seq: e.Seq}
}

func (s *lfu) Touch(e *model.Entry) {
	if n, ok := s.freqs[e.Key]; ok {
		n.freq++
	}
}

func (s *lfu) Remove(key string) { delete(s.freqs, key) }

func (s *lfu) Reset() { clear(s.freqs) }

func (s *lfu) Victim() (string, bool) {
	var (
		victim string
		best   *lfuNode
	)
	for key, n := range s.freqs {
		if best == nil || n.freq < best.freq || (n.freq == best.freq && n.seq < best.seq) {
			victim, best = key, n
		}
	}
	return victim, best != nil
}

func (s *lfu) Len() int { return len(s.freqs) }
