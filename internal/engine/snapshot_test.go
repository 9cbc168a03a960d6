package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexchat/go-nexcache/config"
	"github.com/nexchat/go-nexcache/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestEngine(t, testCfg())

	require.NoError(t, src.Set("a", "alpha", model.WriteOptions{Tags: []string{"greek"}}))
	require.NoError(t, src.Set("b", float64(42), model.WriteOptions{}))
	require.NoError(t, src.Set("c", map[string]any{"nested": true}, model.WriteOptions{}))
	_, _ = src.Get("a")

	snap := src.Export()
	require.Len(t, snap.Entries, 3)
	require.NotNil(t, snap.Config)
	require.NotNil(t, snap.Metrics)

	dst, _ := newTestEngine(t, testCfg())
	require.NoError(t, dst.Import(snap))

	for _, key := range []string{"a", "b", "c"} {
		want, ok := src.Get(key)
		require.True(t, ok)
		got, ok := dst.Get(key)
		require.True(t, ok, key)
		require.Equal(t, want, got, key)
	}
	require.Len(t, dst.GetByTag("greek"), 1)
}

func TestExportImportSurvivesJSON(t *testing.T) {
	src, _ := newTestEngine(t, testCfg())
	require.NoError(t, src.Set("k", "v", model.WriteOptions{}))

	data, err := json.Marshal(src.Export())
	require.NoError(t, err)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	dst, _ := newTestEngine(t, testCfg())
	require.NoError(t, dst.Import(&snap))

	v, ok := dst.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestImportReplacesCurrentStore(t *testing.T) {
	src, _ := newTestEngine(t, testCfg())
	require.NoError(t, src.Set("fresh", 1, model.WriteOptions{}))

	dst, _ := newTestEngine(t, testCfg())
	require.NoError(t, dst.Set("stale", 2, model.WriteOptions{}))

	require.NoError(t, dst.Import(src.Export()))
	require.True(t, dst.Has("fresh"))
	require.False(t, dst.Has("stale"), "import implies a clear of the old table")
}

func TestImportAppliesSnapshotConfig(t *testing.T) {
	srcCfg := testCfg()
	srcCfg.EvictionPolicy = config.EvictFIFO
	srcCfg.MaxEntries = 7
	src, _ := newTestEngine(t, srcCfg)

	dst, _ := newTestEngine(t, testCfg())
	require.NoError(t, dst.Import(src.Export()))

	got := dst.Config()
	require.Equal(t, config.EvictFIFO, got.EvictionPolicy)
	require.Equal(t, 7, got.MaxEntries)
}

func TestImportRejectsNilAndBadConfig(t *testing.T) {
	e, _ := newTestEngine(t, testCfg())
	require.ErrorIs(t, e.Import(nil), ErrBadSnapshot)

	bad := &model.Snapshot{Config: &config.Config{EvictionPolicy: "bogus"}}
	require.ErrorIs(t, e.Import(bad), ErrBadSnapshot)
}

func TestImportPreservesExpiry(t *testing.T) {
	src, _ := newTestEngine(t, testCfg())
	require.NoError(t, src.Set("shortlived", 1, model.WriteOptions{TTL: time.Second}))

	snap := src.Export()

	dst, dstClock := newTestEngine(t, testCfg())
	require.NoError(t, dst.Import(snap))
	require.True(t, dst.Has("shortlived"))

	// CreatedAt travels with the snapshot: once the clock passes
	// CreatedAt+TTL the imported entry is dead, import is no resurrection
	dstClock.Add(2 * time.Second)
	_, ok := dst.Get("shortlived")
	require.False(t, ok)
}

func TestImportRebuildsTrackingStructures(t *testing.T) {
	cfg := testCfg()
	cfg.MaxEntries = 2
	src, _ := newTestEngine(t, cfg)
	require.NoError(t, src.Set("a", 1, model.WriteOptions{}))
	require.NoError(t, src.Set("b", 2, model.WriteOptions{}))

	dst, _ := newTestEngine(t, cfg)
	require.NoError(t, dst.Import(src.Export()))

	// eviction works right after import: "a" is the LRU/FIFO front
	require.NoError(t, dst.Set("c", 3, model.WriteOptions{}))
	require.False(t, dst.Has("a"))
	require.True(t, dst.Has("b"))
	require.True(t, dst.Has("c"))
}
