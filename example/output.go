package main

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	geoip "github.com/proipinfo/geoip-legacy"
)

// result - everything the database knows about one address
type result struct {
	IP           string          `json:"ip" msgpack:"ip"`
	Country      geoip.Country   `json:"country" msgpack:"country"`
	Region       *geoip.Region   `json:"region,omitempty" msgpack:"region,omitempty"`
	Location     *geoip.Location `json:"location,omitempty" msgpack:"location,omitempty"`
	Organization string          `json:"organization,omitempty" msgpack:"organization,omitempty"`
	ID           int             `json:"id" msgpack:"id"`
}

type encoder interface {
	Encode(v interface{}) error
}

func newEncoder(format string, w io.Writer) (encoder, error) {
	switch format {
	case "json":
		return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w), nil
	case "msgpack":
		return msgpack.NewEncoder(w), nil
	}
	return nil, errors.Errorf("unsupported output format %q", format)
}
