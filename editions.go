package geoip

import "strconv"

// Edition - database edition stored in the structure info trailer
type Edition uint8

// Known editions. The numeric values are the codes written in the database.
const (
	EditionCountry        Edition = 1
	EditionCityRev1       Edition = 2
	EditionRegionRev1     Edition = 3
	EditionISP            Edition = 4
	EditionOrg            Edition = 5
	EditionCityRev0       Edition = 6
	EditionRegionRev0     Edition = 7
	EditionProxy          Edition = 8
	EditionASNum          Edition = 9
	EditionNetSpeed       Edition = 10
	EditionDomain         Edition = 11
	EditionCountryV6      Edition = 12
	EditionASNumV6        Edition = 21
	EditionISPV6          Edition = 22
	EditionOrgV6          Edition = 23
	EditionDomainV6       Edition = 24
	EditionCityRev1V6     Edition = 30
	EditionCityRev0V6     Edition = 31
	EditionNetSpeedRev1   Edition = 32
	EditionNetSpeedRev1V6 Edition = 33
)

var editionNames = map[Edition]string{
	EditionCountry:        "GeoIP Country Edition",
	EditionCityRev1:       "GeoIP City Edition, Rev 1",
	EditionRegionRev1:     "GeoIP Region Edition, Rev 1",
	EditionISP:            "GeoIP ISP Edition",
	EditionOrg:            "GeoIP Organization Edition",
	EditionCityRev0:       "GeoIP City Edition, Rev 0",
	EditionRegionRev0:     "GeoIP Region Edition, Rev 0",
	EditionProxy:          "GeoIP Proxy Edition",
	EditionASNum:          "GeoIP ASNum Edition",
	EditionNetSpeed:       "GeoIP Netspeed Edition",
	EditionDomain:         "GeoIP Domain Name Edition",
	EditionCountryV6:      "GeoIP Country V6 Edition",
	EditionASNumV6:        "GeoIP ASNum V6 Edition",
	EditionISPV6:          "GeoIP ISP V6 Edition",
	EditionOrgV6:          "GeoIP Organization V6 Edition",
	EditionDomainV6:       "GeoIP Domain Name V6 Edition",
	EditionCityRev1V6:     "GeoIP City Edition V6, Rev 1",
	EditionCityRev0V6:     "GeoIP City Edition V6, Rev 0",
	EditionNetSpeedRev1:   "GeoIP Netspeed Edition, Rev 1",
	EditionNetSpeedRev1V6: "GeoIP Netspeed Edition V6, Rev 1",
}

func (e Edition) String() string {
	if name, ok := editionNames[e]; ok {
		return name
	}
	return "Unknown Edition " + strconv.Itoa(int(e))
}

// IsV6 reports whether the trie is keyed by 128-bit addresses.
func (e Edition) IsV6() bool {
	switch e {
	case EditionCountryV6, EditionASNumV6, EditionISPV6, EditionOrgV6,
		EditionDomainV6, EditionCityRev1V6, EditionCityRev0V6, EditionNetSpeedRev1V6:
		return true
	}
	return false
}

// IsCity reports whether leaves point to city location records.
func (e Edition) IsCity() bool {
	switch e {
	case EditionCityRev0, EditionCityRev1, EditionCityRev0V6, EditionCityRev1V6:
		return true
	}
	return false
}

// IsRev1City reports whether location records carry the US metro/area triplet.
func (e Edition) IsRev1City() bool {
	return e == EditionCityRev1 || e == EditionCityRev1V6
}

// IsRegion reports whether leaves encode a country/region pair.
func (e Edition) IsRegion() bool {
	return e == EditionRegionRev0 || e == EditionRegionRev1
}

// IsText reports whether leaves point to a single free-text record
// (organization, ISP, AS number, domain or connection speed).
func (e Edition) IsText() bool {
	switch e {
	case EditionOrg, EditionOrgV6, EditionISP, EditionISPV6, EditionASNum,
		EditionASNumV6, EditionDomain, EditionDomainV6, EditionNetSpeedRev1,
		EditionNetSpeedRev1V6:
		return true
	}
	return false
}

// IsCountry reports whether leaves are plain country table indexes.
func (e Edition) IsCountry() bool {
	switch e {
	case EditionCountry, EditionCountryV6, EditionProxy, EditionNetSpeed:
		return true
	}
	return false
}

// hasSegmentHeader reports whether the segment base is stored after the
// edition byte instead of being a fixed constant.
func (e Edition) hasSegmentHeader() bool {
	return e.IsCity() || e.IsText()
}

// recordWidth - size in bytes of one trie child pointer
func (e Edition) recordWidth() int {
	switch e {
	case EditionOrg, EditionOrgV6, EditionISP, EditionISPV6, EditionDomain, EditionDomainV6:
		return orgRecordWidth
	}
	return standardRecordWidth
}
