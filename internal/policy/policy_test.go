package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/model"
)

func entry(key string, seq uint64) *model.Entry {
	return &model.Entry{
		Key:       key,
		Seq:       seq,
		Size:      int64(len(key)),
		CreatedAt: time.Unix(int64(seq), 0),
		TTL:       time.Minute,
	}
}

func TestNewSelectsPolicy(t *testing.T) {
	for _, p := range []config.EvictionPolicy{
		config.EvictLRU, config.EvictLFU, config.EvictFIFO, config.EvictTTL, config.EvictSize,
	} {
		require.Equal(t, p, New(p).Policy())
	}
}

func TestLRUVictimIsLeastRecentlyTouched(t *testing.T) {
	s := New(config.EvictLRU)

	a, b, c := entry("a", 1), entry("b", 2), entry("c", 3)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	s.Touch(a)

	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "b", victim)

	s.Remove("b")
	victim, ok = s.Victim()
	require.True(t, ok)
	require.Equal(t, "c", victim)
}

func TestFIFOIgnoresTouches(t *testing.T) {
	s := New(config.EvictFIFO)

	a, b := entry("a", 1), entry("b", 2)
	s.Add(a)
	s.Add(b)
	s.Touch(a)
	s.Touch(a)

	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "a", victim)
}

func TestLFUVictimHasLowestFrequency(t *testing.T) {
	s := New(config.EvictLFU)

	a, b := entry("a", 1), entry("b", 2)
	s.Add(a)
	s.Add(b)

	s.Touch(a)
	s.Touch(a)
	s.Touch(a)
	s.Touch(b)

	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "b", victim)
}

func TestLFUTieBreaksByInsertionOrder(t *testing.T) {
	s := New(config.EvictLFU)

	for i, key := range []string{"x", "y", "z"} {
		s.Add(entry(key, uint64(i+1)))
	}

	// all frequencies equal: the earliest inserted must lose
	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "x", victim)
}

func TestTTLVictimExpiresFirst(t *testing.T) {
	s := New(config.EvictTTL)

	early := entry("early", 1)
	early.TTL = time.Second
	late := entry("late", 2)
	late.TTL = time.Hour

	s.Add(late)
	s.Add(early)

	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "early", victim)
}

func TestSizeVictimIsLargest(t *testing.T) {
	s := New(config.EvictSize)

	small := entry("small", 1)
	small.Size = 10
	big := entry("big", 2)
	big.Size = 1000

	s.Add(small)
	s.Add(big)

	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "big", victim)
}

func TestSizeTieBreaksByInsertionOrder(t *testing.T) {
	s := New(config.EvictSize)

	first := entry("first", 1)
	first.Size = 100
	second := entry("second", 2)
	second.Size = 100

	s.Add(second)
	s.Add(first)

	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "first", victim)
}

func TestVictimOnEmptyStrategy(t *testing.T) {
	for _, p := range []config.EvictionPolicy{
		config.EvictLRU, config.EvictLFU, config.EvictFIFO, config.EvictTTL, config.EvictSize,
	} {
		s := New(p)
		_, ok := s.Victim()
		require.False(t, ok, string(p))
	}
}

func TestResetDropsEverything(t *testing.T) {
	s := New(config.EvictLRU)
	s.Add(entry("a", 1))
	s.Add(entry("b", 2))
	require.Equal(t, 2, s.Len())

	s.Reset()
	require.Equal(t, 0, s.Len())
	_, ok := s.Victim()
	require.False(t, ok)
}

func TestRebuildSeedsFrequenciesAndOrder(t *testing.T) {
	a, b, c := entry("a", 1), entry("b", 2), entry("c", 3)
	a.AccessCount = 5
	b.AccessCount = 1
	c.AccessCount = 3

	s := Rebuild(config.EvictLFU, []*model.Entry{a, b, c})
	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "b", victim)

	lruS := Rebuild(config.EvictLRU, []*model.Entry{a, b, c})
	victim, ok = lruS.Victim()
	require.True(t, ok)
	require.Equal(t, "a", victim)
}

func TestRebuildLRUPreservesRecency(t *testing.T) {
	a, b, c := entry("a", 1), entry("b", 2), entry("c", 3)
	// "a" was read most recently despite being the earliest insert
	b.LastAccessed = time.Unix(10, 0)
	c.LastAccessed = time.Unix(20, 0)
	a.LastAccessed = time.Unix(30, 0)

	s := Rebuild(config.EvictLRU, []*model.Entry{a, b, c})

	victim, ok := s.Victim()
	require.True(t, ok)
	require.Equal(t, "b", victim)

	s.Remove("b")
	victim, ok = s.Victim()
	require.True(t, ok)
	require.Equal(t, "c", victim)
}
