package geoip

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
)

const (
	fullRecordLength = 100
	maxTextLength    = 1000

	usOffset     = 1
	canadaOffset = 677
	worldOffset  = 1353
	fipsRange    = 360

	rev0USOffset = 1000

	// coordinates are stored as (degrees+180)*10000
	coordinateLimit = 360 * 10000
)

// latin1 decodes ISO-8859-1 payload bytes to UTF-8.
func latin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// regionLetters turns a region ordinal into its two-letter code.
func regionLetters(n uint32) string {
	return string([]byte{byte('A' + n/26), byte('A' + n%26)})
}

func decodeRegionRev0(v uint32) (Region, error) {
	if v >= rev0USOffset {
		return Region{
			CountryCode: countryUS.Code,
			CountryName: countryUS.Name,
			Code:        regionLetters(v - rev0USOffset),
		}, nil
	}
	c, err := countryByIndex(v)
	if err != nil {
		return Region{}, err
	}
	return Region{CountryCode: c.Code, CountryName: c.Name}, nil
}

func decodeRegionRev1(v uint32) (Region, error) {
	switch {
	case v < usOffset:
		return Region{}, nil
	case v < canadaOffset:
		return Region{
			CountryCode: countryUS.Code,
			CountryName: countryUS.Name,
			Code:        regionLetters(v - usOffset),
		}, nil
	case v < worldOffset:
		return Region{
			CountryCode: countryCA.Code,
			CountryName: countryCA.Name,
			Code:        regionLetters(v - canadaOffset),
		}, nil
	}
	c, err := countryByIndex((v - worldOffset) / fipsRange)
	if err != nil {
		return Region{}, err
	}
	return Region{CountryCode: c.Code, CountryName: c.Name}, nil
}

// recordReader walks a location payload field by field.
type recordReader struct {
	buf []byte
	pos int
}

func (r *recordReader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, corruptf("location record truncated at byte %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *recordReader) cstring() (string, error) {
	n := bytes.IndexByte(r.buf[r.pos:], 0)
	if n < 0 {
		return "", corruptf("unterminated string at byte %d of location record", r.pos)
	}
	s := r.buf[r.pos : r.pos+n]
	r.pos += n + 1
	if n == 0 {
		return "", nil
	}
	return latin1(s), nil
}

func (r *recordReader) triplet() (uint32, error) {
	if r.pos+3 > len(r.buf) {
		return 0, corruptf("location record truncated at byte %d", r.pos)
	}
	v := decodeUint(r.buf[r.pos : r.pos+3])
	r.pos += 3
	return v, nil
}

func (r *recordReader) coordinate() (float64, error) {
	start := r.pos
	t, err := r.triplet()
	if err != nil {
		return 0, err
	}
	if t >= coordinateLimit {
		return 0, corruptf("coordinate %d at byte %d of location record out of range", t, start)
	}
	return float64(t)/10000 - 180, nil
}

// decodeLocation parses a city record: country id, region, city and postal
// code strings, latitude and longitude, then the US metro/area combo for
// Rev1 editions.
func decodeLocation(buf []byte, edition Edition) (*Location, error) {
	r := &recordReader{buf: buf}
	idx, err := r.readByte()
	if err != nil {
		return nil, err
	}
	country, err := countryByIndex(uint32(idx))
	if err != nil {
		return nil, err
	}
	loc := &Location{CountryCode: country.Code, CountryName: country.Name}
	if loc.Region, err = r.cstring(); err != nil {
		return nil, err
	}
	if loc.City, err = r.cstring(); err != nil {
		return nil, err
	}
	if loc.PostalCode, err = r.cstring(); err != nil {
		return nil, err
	}
	if loc.Latitude, err = r.coordinate(); err != nil {
		return nil, err
	}
	if loc.Longitude, err = r.coordinate(); err != nil {
		return nil, err
	}
	if edition.IsRev1City() && loc.CountryCode == countryUS.Code {
		combo, err := r.triplet()
		if err != nil {
			return nil, err
		}
		loc.DMACode = int(combo / 1000)
		loc.MetroCode = loc.DMACode
		loc.AreaCode = int(combo % 1000)
	}
	loc.RegionName = RegionName(loc.CountryCode, loc.Region)
	return loc, nil
}

// decodeText returns the NUL-terminated string at the start of buf.
func decodeText(buf []byte) string {
	if n := bytes.IndexByte(buf, 0); n >= 0 {
		buf = buf[:n]
	}
	return latin1(buf)
}
