package geoip

import (
	"encoding/binary"
	"net/netip"
	"strings"
)

// parseAddr - textual address to netip.Addr, zone stripped; ok is false on bad input
func parseAddr(ip string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.WithZone(""), true
}

// ipV4ToInt - ip v4 to int, addr must be an IPv4 or IPv4-mapped address
func ipV4ToInt(addr netip.Addr) uint32 {
	b := addr.Unmap().As4()
	return binary.BigEndian.Uint32(b[:])
}

// ipV6Bits - ip to its 16 byte form, IPv4 addresses are mapped into ::ffff:0:0/96
func ipV6Bits(addr netip.Addr) [16]byte {
	return addr.As16()
}

// bitSource reports the address bit at depth, depth 0 being the least significant bit.
type bitSource func(depth int) bool

func v4Bits(ip uint32) bitSource {
	return func(depth int) bool {
		return ip&(1<<uint(depth)) != 0
	}
}

func v6Bits(ip [16]byte) bitSource {
	return func(depth int) bool {
		return ip[15-depth/8]&(1<<uint(depth%8)) != 0
	}
}
