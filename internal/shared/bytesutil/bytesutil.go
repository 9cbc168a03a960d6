// Package bytesutil holds small byte-slice helpers shared across packages.
package bytesutil

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Checksum is the 64-bit xxh3 digest used to verify dump file frames.
func Checksum(data []byte) uint64 {
	return xxh3.Hash(data)
}

// FmtMem renders a byte count as a two-unit human string ("3MB 214KB").
func FmtMem(n uint64) string {
	const (
		kb = 1 << 10
		mb = kb << 10
		gb = mb << 10
		tb = gb << 10
	)

	switch {
	case n >= tb:
		return fmt.Sprintf("%dTB %dGB", n/tb, n%tb/gb)
	case n >= gb:
		return fmt.Sprintf("%dGB %dMB", n/gb, n%gb/mb)
	case n >= mb:
		return fmt.Sprintf("%dMB %dKB", n/mb, n%mb/kb)
	case n >= kb:
		return fmt.Sprintf("%dKB %dB", n/kb, n%kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
