package model

import (
	"time"

	"github.com/nexchat/go-nexcache/config"
)

// WriteOptions carries per-write settings for a Set call.
type WriteOptions struct {
	// TTL overrides the configured default when > 0.
	TTL time.Duration

	// Tags label the entry for group querying and invalidation.
	Tags []string

	// Metadata is an open key-value bag stored alongside the entry.
	Metadata map[string]any

	// Compress forces compression regardless of the size threshold.
	Compress bool
}

// Snapshot is the portable export/import shape: the full entry table plus
// the configuration and a metrics snapshot taken at export time.
type Snapshot struct {
	Entries []*Entry       `json:"entries"`
	Config  *config.Config `json:"config,omitempty"`
	Metrics *Metrics       `json:"metrics,omitempty"`
}
