package geoip

import (
	"math"
	"time"
)

// earthRadius - equatorial radius in km used by Distance
const earthRadius = 6378.2

// HeaderInfo - model for meta information about database
type HeaderInfo struct {
	Edition     Edition   `json:"edition" msgpack:"edition"`
	RecordWidth int       `json:"record_width" msgpack:"record_width"` // 3 or 4 bytes per trie pointer
	SegmentBase uint32    `json:"segment_base" msgpack:"segment_base"` // smallest leaf value
	BuildDate   time.Time `json:"build_date" msgpack:"build_date"`     // zero when the info string carries no date
	Premium     bool      `json:"premium" msgpack:"premium"`
	Info        string    `json:"info" msgpack:"info"`
}

// Country - two letter ISO code and English name
type Country struct {
	Code string `json:"code" msgpack:"code"`
	Name string `json:"name" msgpack:"name"`
}

// Region - country and region code resolved from a region edition
type Region struct {
	CountryCode string `json:"country_code" msgpack:"country_code"`
	CountryName string `json:"country_name" msgpack:"country_name"`
	Code        string `json:"code" msgpack:"code"` // up to 2 letters, empty when unknown
}

// Location - model for a city edition record
type Location struct {
	CountryCode string  `json:"country_code" msgpack:"country_code"`
	CountryName string  `json:"country_name" msgpack:"country_name"`
	Region      string  `json:"region" msgpack:"region"`
	RegionName  string  `json:"region_name" msgpack:"region_name"`
	City        string  `json:"city" msgpack:"city"`
	PostalCode  string  `json:"postal_code" msgpack:"postal_code"`
	Latitude    float64 `json:"latitude" msgpack:"latitude"`
	Longitude   float64 `json:"longitude" msgpack:"longitude"`

	// US only, zero elsewhere.
	DMACode   int `json:"dma_code" msgpack:"dma_code"`
	MetroCode int `json:"metro_code" msgpack:"metro_code"`
	AreaCode  int `json:"area_code" msgpack:"area_code"`
}

// Distance - great-circle distance in km between two locations
func Distance(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	h = math.Min(math.Max(h, 0), 1)
	return 2 * earthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Distance - great-circle distance in km to other
func (l Location) Distance(other Location) float64 {
	return Distance(l, other)
}
