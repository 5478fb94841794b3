package geoip

import (
	"bytes"
	"math"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const leafFlag = 1 << 31

// trieBuilder assembles a database trie in memory. Leaves are stored as
// offsets from the segment base, which is only known when the trie is
// serialized.
type trieBuilder struct {
	recordWidth int
	nodes       [][2]uint32
}

func newTrieBuilder(recordWidth int) *trieBuilder {
	return &trieBuilder{recordWidth: recordWidth, nodes: make([][2]uint32, 1)}
}

// insert routes the first prefixLen bits of addr to segmentBase+leaf.
func (b *trieBuilder) insert(addr netip.Addr, width, prefixLen int, leaf uint32) {
	var bits bitSource
	if width == 128 {
		bits = v6Bits(addr.As16())
	} else {
		bits = v4Bits(ipV4ToInt(addr))
	}
	node := uint32(0)
	for i := 0; i < prefixLen; i++ {
		side := 0
		if bits(width - 1 - i) {
			side = 1
		}
		if i == prefixLen-1 {
			b.nodes[node][side] = leafFlag | leaf
			return
		}
		next := b.nodes[node][side]
		if next&leafFlag != 0 {
			panic("prefix already routed to a leaf")
		}
		if next == 0 {
			b.nodes = append(b.nodes, [2]uint32{})
			next = uint32(len(b.nodes) - 1)
			b.nodes[node][side] = next
		}
		node = next
	}
}

func (b *trieBuilder) nodeCount() uint32 {
	return uint32(len(b.nodes))
}

// bytes serializes the trie; unset children point to segmentBase.
func (b *trieBuilder) bytes(segmentBase uint32) []byte {
	out := make([]byte, 0, len(b.nodes)*2*b.recordWidth)
	for _, n := range b.nodes {
		for _, v := range n {
			switch {
			case v == 0:
				v = segmentBase
			case v&leafFlag != 0:
				v = segmentBase + v&^leafFlag
			}
			out = append(out, le(v, b.recordWidth)...)
		}
	}
	return out
}

func le(v uint32, width int) []byte {
	out := make([]byte, width)
	for j := range out {
		out[j] = byte(v >> (uint(j) * 8))
	}
	return out
}

// trailer returns the build info string and structure info appended to a
// database. segment is written only when withSegment is set.
func trailer(info string, edition byte, segment uint32, withSegment bool) []byte {
	var buf bytes.Buffer
	if info != "" {
		buf.Write([]byte{0, 0, 0})
		buf.WriteString(info)
	}
	buf.Write([]byte{0xff, 0xff, 0xff, edition})
	if withSegment {
		buf.Write(le(segment, 3))
	}
	return buf.Bytes()
}

func triplet(coordinate float64) []byte {
	return le(uint32(math.Round((coordinate+180)*10000)), 3)
}

type cityRecord struct {
	country    byte
	region     string
	city       string
	postal     string
	lat, lon   float64
	metroCombo uint32
}

func (r cityRecord) bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(r.country)
	for _, s := range []string{r.region, r.city, r.postal} {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	buf.Write(triplet(r.lat))
	buf.Write(triplet(r.lon))
	if r.metroCombo != 0 {
		buf.Write(le(r.metroCombo, 3))
	}
	return buf.Bytes()
}

const fixtureInfo = "GEO-106FREE 20100101 Build 1 Copyright (c) 2010 MaxMind Inc All Rights Reserved"

// countryFixture: 1.0.0.0/8 -> country 2, 8.8.0.0/16 -> US, 10.0.0.0/8 -> CA.
func countryFixture() []byte {
	b := newTrieBuilder(standardRecordWidth)
	b.insert(netip.MustParseAddr("1.0.0.0"), 32, 8, 2)
	b.insert(netip.MustParseAddr("8.8.0.0"), 32, 16, 225)
	b.insert(netip.MustParseAddr("10.0.0.0"), 32, 8, 38)
	db := b.bytes(countryBegin)
	return append(db, trailer(fixtureInfo, byte(EditionCountry)+legacyTypeShift, 0, false)...)
}

// countryV6Fixture: 2001:db8::/32 -> Germany, ::ffff:1.0.0.0/104 -> country 2.
func countryV6Fixture() []byte {
	b := newTrieBuilder(standardRecordWidth)
	b.insert(netip.MustParseAddr("2001:db8::"), 128, 32, 56)
	b.insert(netip.MustParseAddr("::ffff:1.0.0.0"), 128, 104, 2)
	db := b.bytes(countryBegin)
	return append(db, trailer("", byte(EditionCountryV6), 0, false)...)
}

var (
	sanFrancisco = cityRecord{
		country: 225, region: "CA", city: "San Francisco", postal: "94105",
		lat: 37.7897, lon: -122.3942, metroCombo: 807415,
	}
	munich = cityRecord{
		country: 56, region: "02", city: "M\xfcnchen", postal: "80331",
		lat: 48.15, lon: 11.5833,
	}
	fixtureCity = cityRecord{
		country: 5, region: "CA", city: "SanFrancisco", postal: "94105",
		lat: 37.7749, lon: -122.4194,
	}
)

// cityFixture: 8.8.8.0/24 -> sanFrancisco, 5.0.0.0/8 -> munich,
// 6.0.0.0/8 -> fixtureCity.
func cityFixture(edition Edition) []byte {
	b := newTrieBuilder(standardRecordWidth)
	var payload bytes.Buffer
	payload.WriteByte(0)
	insert := func(prefix string, bitsLen int, r cityRecord) {
		rec := r
		if !edition.IsRev1City() {
			rec.metroCombo = 0
		}
		b.insert(netip.MustParseAddr(prefix), 32, bitsLen, uint32(payload.Len()))
		payload.Write(rec.bytes())
	}
	insert("8.8.8.0", 24, sanFrancisco)
	insert("5.0.0.0", 8, munich)
	insert("6.0.0.0", 8, fixtureCity)

	segment := b.nodeCount()
	db := b.bytes(segment)
	db = append(db, payload.Bytes()...)
	return append(db, trailer("GEO-133 20120605 Build 1 Copyright (c) 2012 MaxMind Inc", byte(edition), segment, true)...)
}

// orgFixture: 4.0.0.0/8 -> "Level 3 Communications", 9.0.0.0/8 -> "Caf\xe9 Net".
func orgFixture(edition Edition) []byte {
	b := newTrieBuilder(edition.recordWidth())
	var payload bytes.Buffer
	payload.WriteByte(0)
	for _, r := range []struct {
		prefix string
		name   string
	}{
		{"4.0.0.0", "Level 3 Communications"},
		{"9.0.0.0", "Caf\xe9 Net"},
	} {
		b.insert(netip.MustParseAddr(r.prefix), 32, 8, uint32(payload.Len()))
		payload.WriteString(r.name)
		payload.WriteByte(0)
	}
	segment := b.nodeCount()
	// the trie fills 2*width*segment bytes, so the payload starts where
	// leaf + (2*width-1)*segment points for leaf == segment
	db := b.bytes(segment)
	db = append(db, payload.Bytes()...)
	return append(db, trailer("", byte(edition), segment, true)...)
}

// regionFixture builds a region edition with the given leaf offsets.
func regionFixture(edition Edition, segmentBase uint32, leaves map[string]uint32) []byte {
	b := newTrieBuilder(standardRecordWidth)
	for prefix, leaf := range leaves {
		b.insert(netip.MustParseAddr(prefix), 32, 8, leaf)
	}
	return append(b.bytes(segmentBase), trailer("", byte(edition), 0, false)...)
}

func openFixture(t *testing.T, db []byte, opts ...Option) *Client {
	t.Helper()
	client, err := Open(bytes.NewReader(db), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func writeFixture(t *testing.T, db []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "GeoIP.dat")
	require.NoError(t, os.WriteFile(path, db, 0644))
	return path
}
