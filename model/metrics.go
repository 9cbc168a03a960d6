package model

import "time"

// KeyAccess is one row of the top-keys ranking.
type KeyAccess struct {
	Key         string `json:"key"`
	AccessCount int64  `json:"access_count"`
}

// Metrics is a point-in-time snapshot of cache activity. TotalEntries and
// TotalSize are recomputed from the entry table on every snapshot; the
// counters are cumulative since construction and survive Clear.
type Metrics struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	HitRate      float64 `json:"hit_rate"`
	TotalEntries int     `json:"total_entries"`
	TotalSize    int64   `json:"total_size"`
	MemoryUsage  float64 `json:"memory_usage"` // TotalSize / MaxSize

	Evictions    int64 `json:"evictions"`
	Expirations  int64 `json:"expirations"`
	Compressions int64 `json:"compressions"`

	AvgAccessTime time.Duration `json:"avg_access_time"`

	// TopKeys ranks the ten most accessed live entries, most accessed first.
	TopKeys []KeyAccess `json:"top_keys"`
}
