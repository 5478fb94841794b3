package geoip

import (
	"net/netip"

	lru "github.com/hashicorp/golang-lru/v2"
)

// leafCache remembers trie walk results. Leaves never change for an open
// database, so entries stay valid until Close.
type leafCache struct {
	cache *lru.Cache[netip.Addr, uint32]
}

func newLeafCache(size int) (*leafCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[netip.Addr, uint32](size)
	if err != nil {
		return nil, err
	}
	return &leafCache{cache: c}, nil
}

func (c *leafCache) get(addr netip.Addr) (uint32, bool) {
	if c == nil {
		return 0, false
	}
	return c.cache.Get(addr)
}

func (c *leafCache) add(addr netip.Addr, leaf uint32) {
	if c == nil {
		return
	}
	c.cache.Add(addr, leaf)
}

func (c *leafCache) purge() {
	if c == nil {
		return
	}
	c.cache.Purge()
}
