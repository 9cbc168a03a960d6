package help

import (
	"time"

	"github.com/nexchat/go-nexcache/config"
)

// Cfg is a small, fast configuration for integration tests.
func Cfg() *config.Config {
	c := config.Default()
	c.MaxSize = 1 << 20
	c.MaxEntries = 64
	c.DefaultTTL = time.Minute
	c.CleanupInterval = 25 * time.Millisecond
	c.CompressionThreshold = 256
	return c
}

// LRUCfg holds two entries under the lru policy.
func LRUCfg() *config.Config {
	c := Cfg()
	c.MaxEntries = 2
	c.EvictionPolicy = config.EvictLRU
	return c
}

// FIFOCfg holds two entries under the fifo policy.
func FIFOCfg() *config.Config {
	c := Cfg()
	c.MaxEntries = 2
	c.EvictionPolicy = config.EvictFIFO
	return c
}

// LFUCfg holds two entries under the lfu policy.
func LFUCfg() *config.Config {
	c := Cfg()
	c.MaxEntries = 2
	c.EvictionPolicy = config.EvictLFU
	return c
}
