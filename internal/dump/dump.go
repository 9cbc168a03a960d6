// Package dump persists an exported snapshot to disk and reads it back.
// The file carries a small header (magic, format version, xxh3 checksum of
// the payload) so a truncated or corrupted dump is rejected instead of
// being imported as garbage. Files ending in ".gz" are gzip-compressed.
package dump

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nexchat/go-nexcache/internal/shared/bytesutil"
)

const (
	magic      = "NEXD"
	version    = 1
	bufferSize = 512 * 1024
)

var (
	ErrBadMagic    = errors.New("not a cache dump file")
	ErrBadVersion  = errors.New("unsupported dump version")
	ErrBadChecksum = errors.New("dump checksum mismatch")
)

// Write stores the payload at path atomically: it writes a sibling tmp file
// and renames it over the target.
func Write(path string, payload []byte) error {
	start := time.Now()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dump dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}

	var (
		w  io.Writer = f
		gw *gzip.Writer
	)
	if gzipped(path) {
		gw = gzip.NewWriter(f)
		w = gw
	}
	bw := bufio.NewWriterSize(w, bufferSize)

	if err = writeTo(bw, payload); err == nil {
		err = bw.Flush()
	}
	if gw != nil {
		if cerr := gw.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write dump %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish dump %s: %w", path, err)
	}

	log.Info().
		Str("file", path).
		Str("size", bytesutil.FmtMem(uint64(len(payload)))).
		Str("elapsed", time.Since(start).String()).
		Msg("dump written")
	return nil
}

// Read loads and verifies a dump file, returning the snapshot payload.
func Read(path string) ([]byte, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped(path) {
		gr, gerr := gzip.NewReader(f)
		if gerr != nil {
			return nil, fmt.Errorf("open gzip dump %s: %w", path, gerr)
		}
		defer gr.Close()
		r = gr
	}

	payload, err := readFrom(bufio.NewReaderSize(r, bufferSize))
	if err != nil {
		return nil, fmt.Errorf("read dump %s: %w", path, err)
	}

	log.Info().
		Str("file", path).
		Str("size", bytesutil.FmtMem(uint64(len(payload)))).
		Str("elapsed", time.Since(start).String()).
		Msg("dump restored")
	return payload, nil
}

func writeTo(w io.Writer, payload []byte) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	var head [9]byte
	head[0] = version
	binary.LittleEndian.PutUint64(head[1:], bytesutil.Checksum(payload))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrom(r io.Reader) ([]byte, error) {
	var head [len(magic) + 9]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, err
	}
	if string(head[:len(magic)]) != magic {
		return nil, ErrBadMagic
	}
	if head[len(magic)] != version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, head[len(magic)])
	}
	want := binary.LittleEndian.Uint64(head[len(magic)+1:])

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if bytesutil.Checksum(payload) != want {
		return nil, ErrBadChecksum
	}
	return payload, nil
}

func gzipped(path string) bool {
	return strings.HasSuffix(path, ".gz")
}
