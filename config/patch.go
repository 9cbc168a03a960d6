package config

import "time"

// Patch is a partial configuration update: only non-nil fields are applied.
type Patch struct {
	MaxSize              *int64          `yaml:"max_size"`
	MaxEntries           *int            `yaml:"max_entries"`
	DefaultTTL           *time.Duration  `yaml:"default_ttl"`
	CleanupInterval      *time.Duration  `yaml:"cleanup_interval"`
	EvictionPolicy       *EvictionPolicy `yaml:"eviction_policy"`
	CompressionThreshold *int64          `yaml:"compression_threshold"`
	CompressionLevel     *int            `yaml:"compression_level"`
	EnableCompression    *bool           `yaml:"enable_compression"`
	EnableMetrics        *bool           `yaml:"enable_metrics"`
	MetricsLogInterval   *time.Duration  `yaml:"metrics_log_interval"`
	SweepRate            *int            `yaml:"sweep_rate"`
}

// Apply merges the patch into a copy of c and returns the merged config.
// The receiver is left untouched.
func (c *Config) Apply(p Patch) (*Config, error) {
	next := c.Clone()
	if p.MaxSize != nil {
		next.MaxSize = *p.MaxSize
	}
	if p.MaxEntries != nil {
		next.MaxEntries = *p.MaxEntries
	}
	if p.DefaultTTL != nil {
		next.DefaultTTL = *p.DefaultTTL
	}
	if p.CleanupInterval != nil {
		next.CleanupInterval = *p.CleanupInterval
	}
	if p.EvictionPolicy != nil {
		next.EvictionPolicy = *p.EvictionPolicy
	}
	if p.CompressionThreshold != nil {
		next.CompressionThreshold = *p.CompressionThreshold
	}
	if p.CompressionLevel != nil {
		next.CompressionLevel = *p.CompressionLevel
	}
	if p.EnableCompression != nil {
		next.EnableCompression = *p.EnableCompression
	}
	if p.EnableMetrics != nil {
		next.EnableMetrics = *p.EnableMetrics
	}
	if p.MetricsLogInterval != nil {
		next.MetricsLogInterval = *p.MetricsLogInterval
	}
	if p.SweepRate != nil {
		next.SweepRate = *p.SweepRate
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}
