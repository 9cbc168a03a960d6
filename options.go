package nexcache

import (
	"time"

	"github.com/nexchat/go-nexcache/model"
)

// Option tunes a single write.
type Option func(*model.WriteOptions)

// WithTTL overrides the configured default TTL for this entry.
func WithTTL(ttl time.Duration) Option {
	return func(o *model.WriteOptions) { o.TTL = ttl }
}

// WithTags labels the entry for group querying and invalidation.
func WithTags(tags ...string) Option {
	return func(o *model.WriteOptions) { o.Tags = tags }
}

// WithMetadata attaches an open key-value bag to the entry.
func WithMetadata(md map[string]any) Option {
	return func(o *model.WriteOptions) { o.Metadata = md }
}

// WithCompression forces compression regardless of the size threshold.
func WithCompression() Option {
	return func(o *model.WriteOptions) { o.Compress = true }
}

func buildOptions(opts []Option) model.WriteOptions {
	var o model.WriteOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
