package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/nexchat/go-nexcache/model"
)

// Flate is the default codec: DEFLATE at a configurable level.
type Flate struct {
	level int
}

func NewFlate(level int) *Flate {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = flate.DefaultCompression
	}
	return &Flate{level: level}
}

func (f *Flate) Name() model.Compression { return model.CompressionFlate }

func (f *Flate) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, f.level)
	if err != nil {
		return nil, fmt.Errorf("flate writer: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return nil, fmt.Errorf("flate compress: %w", err)
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("flate flush: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Flate) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("flate decompress: %w", err)
	}
	return out, nil
}
