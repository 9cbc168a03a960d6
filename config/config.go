package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EvictionPolicy selects the victim-picking algorithm used when either
// capacity limit is exceeded.
type EvictionPolicy string

const (
	// EvictLRU evicts the least recently touched entry.
	EvictLRU EvictionPolicy = "lru"

	// EvictLFU evicts the entry with the lowest access frequency.
	EvictLFU EvictionPolicy = "lfu"

	// EvictFIFO evicts the earliest inserted entry regardless of access.
	EvictFIFO EvictionPolicy = "fifo"

	// EvictTTL evicts the entry with the earliest absolute expiry.
	EvictTTL EvictionPolicy = "ttl"

	// EvictSize evicts the largest entry by stored bytes.
	EvictSize EvictionPolicy = "size"
)

const (
	DefaultMaxSize              = 50 << 20 // 50MiB
	DefaultMaxEntries           = 10_000
	DefaultTTL                  = 30 * time.Minute
	DefaultCleanupInterval      = 5 * time.Minute
	DefaultCompressionThreshold = 1024
	DefaultCompressionLevel     = -1 // flate.DefaultCompression
	DefaultSweepRate            = 100_000
)

// Config is the full cache configuration. Zero numeric fields are filled
// with defaults by Normalize; the boolean toggles default to true via
// Default(), so a YAML file only has to name what it changes.
type Config struct {
	// MaxSize is the hard byte limit for the sum of stored entry sizes.
	MaxSize int64 `yaml:"max_size"`

	// MaxEntries is the hard limit on the number of live entries.
	MaxEntries int `yaml:"max_entries"`

	// DefaultTTL applies to writes that do not carry their own TTL.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// CleanupInterval is the period of the background expiry sweep.
	// Changing it through UpdateConfig re-arms the sweep timer.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	// EvictionPolicy selects the active victim-picking algorithm.
	// Switching it at runtime rebuilds the strategy index from the
	// entry table; no write traffic is required for it to take effect.
	EvictionPolicy EvictionPolicy `yaml:"eviction_policy"`

	// CompressionThreshold is the serialized size, in bytes, at or above
	// which a payload is handed to the compressor.
	CompressionThreshold int64 `yaml:"compression_threshold"`

	// CompressionLevel is a flate level.
	// Supported levels:
	//   NoCompression      = 0
	//   BestSpeed          = 1
	//   BestCompression    = 9
	//   DefaultCompression = -1
	//   HuffmanOnly        = -2
	CompressionLevel int `yaml:"compression_level"`

	// EnableCompression gates the compression path entirely.
	EnableCompression bool `yaml:"enable_compression"`

	// EnableMetrics gates hit/miss/latency accounting and the periodic
	// telemetry log line.
	EnableMetrics bool `yaml:"enable_metrics"`

	// MetricsLogInterval is the period of the telemetry log line.
	// Zero disables the telemetry logger even when metrics are enabled.
	MetricsLogInterval time.Duration `yaml:"metrics_log_interval"`

	// SweepRate caps how many expired entries the background sweep may
	// remove per second, so a large expired backlog cannot monopolize
	// the table lock.
	SweepRate int `yaml:"sweep_rate"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		MaxSize:              DefaultMaxSize,
		MaxEntries:           DefaultMaxEntries,
		DefaultTTL:           DefaultTTL,
		CleanupInterval:      DefaultCleanupInterval,
		EvictionPolicy:       EvictLRU,
		CompressionThreshold: DefaultCompressionThreshold,
		CompressionLevel:     DefaultCompressionLevel,
		EnableCompression:    true,
		EnableMetrics:        true,
		SweepRate:            DefaultSweepRate,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.Normalize()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Normalize fills zero-valued fields with defaults.
func (c *Config) Normalize() {
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	if c.EvictionPolicy == "" {
		c.EvictionPolicy = EvictLRU
	}
	if c.CompressionThreshold <= 0 {
		c.CompressionThreshold = DefaultCompressionThreshold
	}
	if c.SweepRate <= 0 {
		c.SweepRate = DefaultSweepRate
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.EvictionPolicy {
	case EvictLRU, EvictLFU, EvictFIFO, EvictTTL, EvictSize:
	default:
		return fmt.Errorf("unknown eviction policy %q", c.EvictionPolicy)
	}
	if c.CompressionLevel < -2 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression level %d out of range [-2..9]", c.CompressionLevel)
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
