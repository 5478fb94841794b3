package geoip

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	countryBegin    = 16776960
	stateBeginRev0  = 16700000
	stateBeginRev1  = 16000000
	legacyTypeShift = 105

	standardRecordWidth = 3
	orgRecordWidth      = 4

	structureInfoMaxSize = 20
	databaseInfoMaxSize  = 100

	buildDateLayout = "20060102"
)

var (
	structureMarker = []byte{0xff, 0xff, 0xff}
	infoTerminator  = []byte{0x00, 0x00, 0x00}
)

// header - trie layout detected from the structure info trailer
type header struct {
	edition     Edition
	recordWidth int
	segmentBase uint32

	// markerPos is the offset of the structure marker, -1 when absent.
	markerPos int64
}

// findStructureInfo scans back from the tail for the structure marker,
// moving the 3-byte window one byte per attempt.
func findStructureInfo(stream *dbStream) (int64, error) {
	delim := make([]byte, 3)
	pos := stream.getLength() - 3
	for i := 0; i < structureInfoMaxSize && pos >= 0; i++ {
		if _, err := stream.readAt(pos, delim); err != nil {
			return -1, err
		}
		if bytes.Equal(delim, structureMarker) {
			return pos, nil
		}
		pos--
	}
	return -1, nil
}

func defaultHeader() header {
	return header{
		edition:     EditionCountry,
		recordWidth: standardRecordWidth,
		segmentBase: countryBegin,
		markerPos:   -1,
	}
}

// truncated reports a read that ran past the end of the stream.
func truncated(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// parseHeader reads the structure info trailer. Content that does not carry
// a recognizable trailer falls back to the Country edition layout; only
// read failures are returned.
func parseHeader(stream *dbStream) (header, error) {
	h := defaultHeader()
	pos, err := findStructureInfo(stream)
	if err != nil || pos < 0 {
		return h, err
	}

	code := make([]byte, 1)
	if _, err := stream.readAt(pos+3, code); err != nil {
		if truncated(err) {
			return defaultHeader(), nil
		}
		return h, err
	}
	edition := Edition(code[0])
	if edition >= 106 {
		edition -= legacyTypeShift
	}
	if _, ok := editionNames[edition]; !ok {
		return defaultHeader(), nil
	}
	h.edition = edition
	h.markerPos = pos

	switch {
	case edition == EditionRegionRev0:
		h.segmentBase = stateBeginRev0
	case edition == EditionRegionRev1:
		h.segmentBase = stateBeginRev1
	case edition.hasSegmentHeader():
		buf := make([]byte, 3)
		if _, err := stream.readAt(pos+4, buf); err != nil {
			if truncated(err) {
				return defaultHeader(), nil
			}
			return h, err
		}
		h.segmentBase = decodeUint(buf)
		h.recordWidth = edition.recordWidth()
	}
	return h, nil
}

// buildInfo - human readable database description kept before the trailer
type buildInfo struct {
	info      string
	premium   bool
	buildDate time.Time
}

// parseBuildInfo scans back from the structure marker for the NUL terminator
// that precedes the info string.
func parseBuildInfo(stream *dbStream, markerPos int64) (buildInfo, error) {
	end := stream.getLength()
	if markerPos >= 0 {
		end = markerPos
	}
	delim := make([]byte, 3)
	pos := end - 3
	for i := 0; i < databaseInfoMaxSize && pos >= 0; i++ {
		if _, err := stream.readAt(pos, delim); err != nil {
			return buildInfo{}, err
		}
		if bytes.Equal(delim, infoTerminator) {
			raw := make([]byte, end-(pos+3))
			if _, err := stream.readAt(pos+3, raw); err != nil {
				return buildInfo{}, err
			}
			return newBuildInfo(latin1(raw)), nil
		}
		pos--
	}
	return newBuildInfo(""), nil
}

func newBuildInfo(info string) buildInfo {
	return buildInfo{
		info:      info,
		premium:   !strings.Contains(info, "FREE"),
		buildDate: findBuildDate(info),
	}
}

// findBuildDate returns the first yyyyMMdd token that follows ASCII
// whitespace, or the zero time.
func findBuildDate(info string) time.Time {
	for i := 0; i+9 <= len(info); i++ {
		switch info[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			continue
		}
		if t, err := time.Parse(buildDateLayout, info[i+1:i+9]); err == nil {
			return t
		}
	}
	return time.Time{}
}
