package policy

import (
	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/model"
)

type scanNode struct {
	rank int64 // smaller evicts first
	seq  uint64
}

// scanIndex is the shared shape of the TTL and SIZE strategies: a per-key
// rank scanned for the minimum on eviction, ties broken by the lowest
// insertion sequence.
type scanIndex struct {
	policy config.EvictionPolicy
	rank   func(*model.Entry) int64
	nodes  map[string]*scanNode
}

// newTTLScan ranks by absolute expiry instant: earliest expiry evicts first.
func newTTLScan() *scanIndex {
	return &scanIndex{
		policy: config.EvictTTL,
		rank:   func(e *model.Entry) int64 { return e.ExpiresAt().UnixNano() },
		nodes:  make(map[string]*scanNode),
	}
}

// newSizeScan ranks by negated size: the largest entry evicts first.
func newSizeScan() *scanIndex {
	return &scanIndex{
		policy: config.EvictSize,
		rank:   func(e *model.Entry) int64 { return -e.Size },
		nodes:  make(map[string]*scanNode),
	}
}

func (s *scanIndex) Policy() config.EvictionPolicy { return s.policy }

func (s *scanIndex) Add(e *model.Entry) {
	s.nodes[e.Key] = &scanNode{rank: s.rank(e), seq: e.Seq}
}

func (s *scanIndex) Touch(*model.Entry) {}

func (s *scanIndex) Remove(key string) { delete(s.nodes, key) }

func (s *scanIndex) Reset() { clear(s.nodes) }

func (s *scanIndex) Victim() (string, bool) {
	var (
		victim string
		best   *scanNode
	)
	for key, n := range s.nodes {
		if best == nil || n.rank < best.rank || (n.rank == best.rank && n.seq < best.seq) {
			victim, best = key, n
		}
	}
	return victim, best != nil
}

func (s *scanIndex) Len() int { return len(s.nodes) }
