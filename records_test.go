package geoip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryByIndex(t *testing.T) {
	c, err := countryByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, Country{Code: "--", Name: "N/A"}, c)

	c, err = countryByIndex(225)
	require.NoError(t, err)
	assert.Equal(t, Country{Code: "US", Name: "United States"}, c)

	_, err = countryByIndex(uint32(len(countries)))
	assert.ErrorIs(t, err, ErrCorruptDatabase)
}

func TestDecodeRegionRev0(t *testing.T) {
	r, err := decodeRegionRev0(1000 + 2*26 + 3)
	require.NoError(t, err)
	assert.Equal(t, Region{CountryCode: "US", CountryName: "United States", Code: "CD"}, r)

	r, err = decodeRegionRev0(38)
	require.NoError(t, err)
	assert.Equal(t, Region{CountryCode: "CA", CountryName: "Canada"}, r)

	_, err = decodeRegionRev0(999)
	assert.ErrorIs(t, err, ErrCorruptDatabase)
}

func TestDecodeRegionRev1(t *testing.T) {
	tests := []struct {
		name     string
		v        uint32
		expected Region
	}{
		{"empty below US offset", 0, Region{}},
		{"US state", usOffset + 2*26 + 0, Region{CountryCode: "US", CountryName: "United States", Code: "CA"}},
		{"first US code", usOffset, Region{CountryCode: "US", CountryName: "United States", Code: "AA"}},
		{"Canadian province", canadaOffset + 14*26 + 13, Region{CountryCode: "CA", CountryName: "Canada", Code: "ON"}},
		{"world country", worldOffset + 56*fipsRange + 7, Region{CountryCode: "DE", CountryName: "Germany"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := decodeRegionRev1(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}

	_, err := decodeRegionRev1(worldOffset + 300*fipsRange)
	assert.ErrorIs(t, err, ErrCorruptDatabase)
}

func TestDecodeLocation(t *testing.T) {
	t.Run("fixture record", func(t *testing.T) {
		loc, err := decodeLocation(fixtureCity.bytes(), EditionCityRev0)
		require.NoError(t, err)
		assert.Equal(t, "AF", loc.CountryCode)
		assert.Equal(t, "CA", loc.Region)
		assert.Equal(t, "SanFrancisco", loc.City)
		assert.Equal(t, "94105", loc.PostalCode)
		assert.InDelta(t, 37.7749, loc.Latitude, 1e-4)
		assert.InDelta(t, -122.4194, loc.Longitude, 1e-4)
		assert.Zero(t, loc.DMACode)
		assert.Zero(t, loc.AreaCode)
	})

	t.Run("US rev1 record reads metro and area codes", func(t *testing.T) {
		loc, err := decodeLocation(sanFrancisco.bytes(), EditionCityRev1)
		require.NoError(t, err)
		assert.Equal(t, "United States", loc.CountryName)
		assert.Equal(t, "California", loc.RegionName)
		assert.Equal(t, 807, loc.DMACode)
		assert.Equal(t, 807, loc.MetroCode)
		assert.Equal(t, 415, loc.AreaCode)
	})

	t.Run("latin1 strings and empty fields", func(t *testing.T) {
		rec := munich
		rec.postal = ""
		loc, err := decodeLocation(rec.bytes(), EditionCityRev1)
		require.NoError(t, err)
		assert.Equal(t, "München", loc.City)
		assert.Equal(t, "", loc.PostalCode)
		assert.Equal(t, "", loc.RegionName)
		assert.Zero(t, loc.MetroCode)
	})

	t.Run("truncated record", func(t *testing.T) {
		buf := fixtureCity.bytes()
		_, err := decodeLocation(buf[:len(buf)-2], EditionCityRev0)
		assert.ErrorIs(t, err, ErrCorruptDatabase)

		_, err = decodeLocation([]byte{5, 'C', 'A'}, EditionCityRev0)
		assert.ErrorIs(t, err, ErrCorruptDatabase)

		_, err = decodeLocation(nil, EditionCityRev0)
		assert.ErrorIs(t, err, ErrCorruptDatabase)
	})

	t.Run("coordinates stay in range", func(t *testing.T) {
		for _, c := range []float64{-180, -90, 0, 45.5, 179.9999} {
			rec := fixtureCity
			rec.lat, rec.lon = c, c
			loc, err := decodeLocation(rec.bytes(), EditionCityRev0)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, loc.Latitude, -180.0)
			assert.Less(t, loc.Latitude, 180.0)
			assert.InDelta(t, c, loc.Longitude, 1e-4)
		}

		for _, buf := range [][]byte{
			{5, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			append([]byte{5, 0, 0, 0}, append(le(coordinateLimit-1, 3), le(coordinateLimit, 3)...)...),
		} {
			loc, err := decodeLocation(buf, EditionCityRev0)
			assert.ErrorIs(t, err, ErrCorruptDatabase)
			assert.Nil(t, loc)
		}
	})
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "AS15169 Google Inc.", decodeText([]byte("AS15169 Google Inc.\x00garbage")))
	assert.Equal(t, "Café", decodeText([]byte("Caf\xe9")))
	assert.Equal(t, "", decodeText([]byte{0, 'x'}))
}
