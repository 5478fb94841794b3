package geoip

import (
	"io"
	"net/netip"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ---------------- PUBLIC BLOCK ----------------

// Client - read-only lookup service over one legacy GeoIP database.
// A Client serializes all queries; open several Clients over independent
// streams for parallel lookups.
type Client struct {
	m      sync.Mutex
	stream *dbStream
	header header
	info   *buildInfo
	leaves *leafCache
	logger *logrus.Entry
}

// Open - factory method for a client reading from r. The client takes
// ownership of r and closes it on Close, or when Open fails, if it is an
// io.Closer; in ModeCached r is read fully and closed before Open returns.
func Open(r io.ReadSeeker, opts ...Option) (*Client, error) {
	o := newOptions(opts...)
	stream, err := newDBStream(r, o.mode == ModeCached)
	if err != nil {
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	client, err := open(stream, o)
	if err != nil {
		_ = stream.close()
		return nil, err
	}
	return client, nil
}

// OpenFile - factory method for a client reading the database at filename
func OpenFile(filename string, opts ...Option) (*Client, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	return Open(file, opts...)
}

// Edition - edition detected when the database was opened
func (client *Client) Edition() Edition {
	return client.header.edition
}

// HeaderInfo - database layout and build information. The build
// information is read on first use and cached.
func (client *Client) HeaderInfo() (HeaderInfo, error) {
	client.m.Lock()
	defer client.m.Unlock()
	if client.stream == nil {
		return HeaderInfo{}, ErrClosed
	}
	if client.info == nil {
		info, err := parseBuildInfo(client.stream, client.header.markerPos)
		if err != nil {
			return HeaderInfo{}, errors.Wrap(err, "failed to read database info")
		}
		client.info = &info
	}
	return HeaderInfo{
		Edition:     client.header.edition,
		RecordWidth: client.header.recordWidth,
		SegmentBase: client.header.segmentBase,
		BuildDate:   client.info.buildDate,
		Premium:     client.info.premium,
		Info:        client.info.info,
	}, nil
}

// Country - country of ip, UnknownCountry when ip is malformed or has no entry
func (client *Client) Country(ip string) (Country, error) {
	addr, _ := parseAddr(ip)
	return client.CountryAddr(addr)
}

// CountryAddr - Country for a parsed address
func (client *Client) CountryAddr(addr netip.Addr) (Country, error) {
	country := UnknownCountry
	_, err := client.withLeaf(addr, func(leaf uint32) error {
		v := leaf - client.header.segmentBase
		switch e := client.header.edition; {
		case e.IsCountry():
			c, err := countryByIndex(v)
			if err != nil {
				return err
			}
			country = c
		case e.IsCity():
			loc, err := client.readLocation(leaf)
			if err != nil || loc == nil {
				return err
			}
			country = Country{Code: loc.CountryCode, Name: loc.CountryName}
		case e.IsRegion():
			r, err := client.decodeRegion(v)
			if err != nil || r.CountryCode == "" {
				return err
			}
			country = Country{Code: r.CountryCode, Name: r.CountryName}
		}
		return nil
	})
	if err != nil {
		return UnknownCountry, err
	}
	return country, nil
}

// Region - country and region of ip for region editions, empty Region for
// other editions
func (client *Client) Region(ip string) (Region, error) {
	addr, _ := parseAddr(ip)
	return client.RegionAddr(addr)
}

// RegionAddr - Region for a parsed address
func (client *Client) RegionAddr(addr netip.Addr) (Region, error) {
	var region Region
	_, err := client.withLeaf(addr, func(leaf uint32) error {
		if !client.header.edition.IsRegion() {
			return nil
		}
		r, err := client.decodeRegion(leaf - client.header.segmentBase)
		if err != nil {
			return err
		}
		region = r
		return nil
	})
	if err != nil {
		return Region{}, err
	}
	return region, nil
}

// Location - city record of ip, nil when the address has no record or the
// database is not a city edition
func (client *Client) Location(ip string) (*Location, error) {
	addr, _ := parseAddr(ip)
	return client.LocationAddr(addr)
}

// LocationAddr - Location for a parsed address
func (client *Client) LocationAddr(addr netip.Addr) (*Location, error) {
	var loc *Location
	_, err := client.withLeaf(addr, func(leaf uint32) error {
		if !client.header.edition.IsCity() {
			return nil
		}
		l, err := client.readLocation(leaf)
		if err != nil {
			return err
		}
		loc = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// Organization - organization, ISP, AS or domain string of ip; ok is false
// when the address has no record
func (client *Client) Organization(ip string) (org string, ok bool, err error) {
	addr, _ := parseAddr(ip)
	return client.OrganizationAddr(addr)
}

// OrganizationAddr - Organization for a parsed address
func (client *Client) OrganizationAddr(addr netip.Addr) (org string, ok bool, err error) {
	_, err = client.withLeaf(addr, func(leaf uint32) error {
		if !client.header.edition.IsText() || leaf == client.header.segmentBase {
			return nil
		}
		buf, err := client.stream.readUpTo(client.recordOffset(leaf), maxTextLength)
		if err != nil {
			return err
		}
		org, ok = decodeText(buf), true
		return nil
	})
	if err != nil || !ok {
		return "", false, err
	}
	return org, true, nil
}

// ID - raw leaf id of ip, leaf minus segment base, 0 for malformed addresses
func (client *Client) ID(ip string) (int, error) {
	addr, _ := parseAddr(ip)
	return client.IDAddr(addr)
}

// IDAddr - ID for a parsed address
func (client *Client) IDAddr(addr netip.Addr) (int, error) {
	var id int
	_, err := client.withLeaf(addr, func(leaf uint32) error {
		id = int(leaf - client.header.segmentBase)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Close - method for closing db. It waits for an in-flight query and is
// safe to call more than once.
func (client *Client) Close() error {
	client.m.Lock()
	defer client.m.Unlock()
	if client.stream == nil {
		return nil
	}
	err := client.stream.close()
	client.stream = nil
	client.leaves.purge()
	return errors.Wrap(err, "failed to close database")
}

// ---------------- PRIVATE BLOCK ----------------

func open(stream *dbStream, o options) (*Client, error) {
	h, err := parseHeader(stream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read database header")
	}
	if o.mode == ModeIndexCached {
		size := int64(h.segmentBase) * int64(2*h.recordWidth)
		if err := stream.cacheIndex(size); err != nil {
			return nil, err
		}
	}
	leaves, err := newLeafCache(o.leafCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create leaf cache")
	}
	o.logger.WithFields(logrus.Fields{
		"edition":      h.edition.String(),
		"record_width": h.recordWidth,
		"segment_base": h.segmentBase,
		"mode":         o.mode.String(),
	}).Debug("Opened geoip database")

	return &Client{
		stream: stream,
		header: h,
		leaves: leaves,
		logger: o.logger,
	}, nil
}

// withLeaf resolves addr and runs fn with its leaf, all under the client
// lock. Read failures are logged and reported as not found; closed and
// corrupt database errors are returned.
func (client *Client) withLeaf(addr netip.Addr, fn func(leaf uint32) error) (bool, error) {
	client.m.Lock()
	defer client.m.Unlock()
	if client.stream == nil {
		return false, ErrClosed
	}
	if !addr.IsValid() {
		return false, nil
	}
	leaf, ok, err := client.seekLeaf(addr)
	if err == nil && ok {
		err = fn(leaf)
	}
	if err != nil {
		return false, client.handleReadError(addr, err)
	}
	return ok, nil
}

func (client *Client) handleReadError(addr netip.Addr, err error) error {
	if errors.Is(err, ErrCorruptDatabase) {
		return err
	}
	client.logger.WithError(err).WithField("ip", addr.String()).Warn("Failed to read geoip database")
	return nil
}

// seekLeaf walks the trie for addr. ok is false when the address family
// does not match the database.
func (client *Client) seekLeaf(addr netip.Addr) (uint32, bool, error) {
	var (
		bits  bitSource
		width int
	)
	if client.header.edition.IsV6() {
		bits, width = v6Bits(ipV6Bits(addr)), 128
	} else {
		addr = addr.Unmap()
		if !addr.Is4() {
			return 0, false, nil
		}
		bits, width = v4Bits(ipV4ToInt(addr)), 32
	}
	if leaf, ok := client.leaves.get(addr); ok {
		return leaf, true, nil
	}
	leaf, err := walk(bits, width, client.header.recordWidth, client.header.segmentBase, client.stream.readNode)
	if err != nil {
		return 0, false, err
	}
	client.leaves.add(addr, leaf)
	return leaf, true, nil
}

// recordOffset - absolute offset of the payload a leaf points to
func (client *Client) recordOffset(leaf uint32) int64 {
	h := client.header
	return int64(leaf) + int64(2*h.recordWidth-1)*int64(h.segmentBase)
}

// readLocation returns nil for the leaf that marks "no record".
func (client *Client) readLocation(leaf uint32) (*Location, error) {
	if leaf == client.header.segmentBase {
		return nil, nil
	}
	buf, err := client.stream.readUpTo(client.recordOffset(leaf), fullRecordLength)
	if err != nil {
		return nil, err
	}
	return decodeLocation(buf, client.header.edition)
}

func (client *Client) decodeRegion(v uint32) (Region, error) {
	if client.header.edition == EditionRegionRev0 {
		return decodeRegionRev0(v)
	}
	return decodeRegionRev1(v)
}
