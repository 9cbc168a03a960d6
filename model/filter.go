package model

import "time"

// Filter is a predicate set for the query engine. All supplied conditions
// must hold for an entry to match; the Tags condition itself uses ANY-of
// semantics (one shared tag is enough). Zero values mean "not filtered".
type Filter struct {
	// Tags matches entries sharing at least one tag with this set.
	Tags []string `json:"tags,omitempty"`

	// KeyPattern is a regular expression tested against the entry key.
	KeyPattern string `json:"key_pattern,omitempty"`

	// MinAccessCount is an inclusive lower bound on AccessCount.
	MinAccessCount int64 `json:"min_access_count,omitempty"`

	// MaxAge is an inclusive upper bound on the entry age (now - CreatedAt).
	MaxAge time.Duration `json:"max_age,omitempty"`

	// MinSize and MaxSize are inclusive bounds on the stored size in bytes.
	MinSize int64 `json:"min_size,omitempty"`
	MaxSize int64 `json:"max_size,omitempty"`
}
