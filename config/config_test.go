package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, EvictLRU, cfg.EvictionPolicy)
	require.Equal(t, int64(50<<20), cfg.MaxSize)
	require.Equal(t, 10_000, cfg.MaxEntries)
	require.Equal(t, 30*time.Minute, cfg.DefaultTTL)
	require.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	require.True(t, cfg.EnableCompression)
	require.True(t, cfg.EnableMetrics)
}

func TestNormalizeFillsZeroFields(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()
	require.Equal(t, Default().MaxSize, cfg.MaxSize)
	require.Equal(t, Default().MaxEntries, cfg.MaxEntries)
	require.Equal(t, EvictLRU, cfg.EvictionPolicy)
	require.Equal(t, int64(DefaultCompressionThreshold), cfg.CompressionThreshold)
}

func TestValidateRejectsUnknownPolicy(t *testing.T) {
	cfg := Default()
	cfg.EvictionPolicy = "random"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadCompressionLevel(t *testing.T) {
	cfg := Default()
	cfg.CompressionLevel = 11
	require.Error(t, cfg.Validate())
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_entries: 128
eviction_policy: lfu
default_ttl: 1m
enable_compression: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 128, cfg.MaxEntries)
	require.Equal(t, EvictLFU, cfg.EvictionPolicy)
	require.Equal(t, time.Minute, cfg.DefaultTTL)
	require.False(t, cfg.EnableCompression)
	// untouched keys keep their defaults
	require.Equal(t, Default().MaxSize, cfg.MaxSize)
	require.True(t, cfg.EnableMetrics)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("eviction_policy: mru\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestPatchAppliesOnlySetFields(t *testing.T) {
	cfg := Default()

	maxEntries := 3
	policy := EvictFIFO
	next, err := cfg.Apply(Patch{MaxEntries: &maxEntries, EvictionPolicy: &policy})
	require.NoError(t, err)

	require.Equal(t, 3, next.MaxEntries)
	require.Equal(t, EvictFIFO, next.EvictionPolicy)
	require.Equal(t, cfg.MaxSize, next.MaxSize)
	require.Equal(t, cfg.DefaultTTL, next.DefaultTTL)

	// receiver untouched
	require.Equal(t, Default().MaxEntries, cfg.MaxEntries)
}

func TestPatchRejectsInvalidResult(t *testing.T) {
	bogus := EvictionPolicy("bogus")
	_, err := Default().Apply(Patch{EvictionPolicy: &bogus})
	require.Error(t, err)
}
