package model

import (
	"time"
)

// Compression names the codec a stored payload was compressed with.
// The empty string means the payload is stored as-is.
type Compression string

const (
	CompressionNone  Compression = ""
	CompressionFlate Compression = "flate"
)

// Stored is the on-table representation of a value: either the plain
// serialized payload or its compressed form tagged with the codec name.
type Stored struct {
	Bytes       []byte      `json:"bytes"`
	Compression Compression `json:"compression,omitempty"`
}

func (s Stored) Compressed() bool { return s.Compression != CompressionNone }

// Entry is a single cache record. An entry is built once on the write path
// and never resized in place; a write to an existing key replaces the whole
// entry. Reads only bump AccessCount/LastAccessed.
type Entry struct {
	Key          string         `json:"key"`
	Stored       Stored         `json:"stored"`
	Size         int64          `json:"size"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed time.Time      `json:"last_accessed"`
	AccessCount  int64          `json:"access_count"`
	TTL          time.Duration  `json:"ttl"`
	Tags         []string       `json:"tags,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`

	// Seq is a monotonic insertion sequence number assigned by the engine.
	// It makes victim tie-breaking deterministic: earliest-inserted wins.
	Seq uint64 `json:"seq"`
}

// Expired reports whether the entry outlived its TTL at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	if e == nil || e.TTL <= 0 {
		return false
	}
	return now.Sub(e.CreatedAt) > e.TTL
}

// ExpiresAt is the absolute instant after which the entry is expired.
func (e *Entry) ExpiresAt() time.Time { return e.CreatedAt.Add(e.TTL) }

// Touch records a read.
func (e *Entry) Touch(now time.Time) {
	e.AccessCount++
	e.LastAccessed = now
}

// HasAnyTag reports whether the entry carries at least one of the given tags.
func (e *Entry) HasAnyTag(tags []string) bool {
	if len(e.Tags) == 0 || len(tags) == 0 {
		return false
	}
	for _, want := range tags {
		for _, have := range e.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of the engine lock.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := *e
	if e.Stored.Bytes != nil {
		cp.Stored.Bytes = append([]byte(nil), e.Stored.Bytes...)
	}
	if e.Tags != nil {
		cp.Tags = append([]string(nil), e.Tags...)
	}
	if e.Metadata != nil {
		cp.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
