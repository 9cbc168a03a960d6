// Package codec implements the compression adapter contract consumed by the
// cache engine. The engine treats both directions as best-effort: a failed
// Compress stores the payload uncompressed, a failed Decompress hands the
// raw stored bytes back to the caller.
package codec

import (
	"github.com/nexchat/go-nexcache/model"
)

type Codec interface {
	// Name tags stored payloads so the matching codec can be found on read.
	Name() model.Compression

	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Registry maps a compression tag to its codec.
type Registry map[model.Compression]Codec

func NewRegistry(codecs ...Codec) Registry {
	r := make(Registry, len(codecs))
	for _, c := range codecs {
		r[c.Name()] = c
	}
	return r
}

// Lookup returns the codec for the given tag.
func (r Registry) Lookup(name model.Compression) (Codec, bool) {
	c, ok := r[name]
	return c, ok
}
