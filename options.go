package geoip

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Mode selects where queries read the database bytes from.
type Mode int

const (
	// ModeDirect seeks within the supplied stream on every query.
	ModeDirect Mode = iota
	// ModeCached copies the whole database into memory at open and
	// releases the supplied stream.
	ModeCached
	// ModeIndexCached keeps only the trie in memory; records are still
	// read from the stream.
	ModeIndexCached
)

var modeNames = map[Mode]string{
	ModeDirect:      "direct",
	ModeCached:      "cached",
	ModeIndexCached: "index",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// UnmarshalText parses "direct", "cached" or "index".
func (m *Mode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for mode, name := range modeNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return errors.Errorf("unknown mode %q", s)
}

type options struct {
	mode          Mode
	logger        *logrus.Entry
	leafCacheSize int
}

// Option defines a function that changes how a Client is opened.
type Option func(o *options)

// WithMode sets the storage mode, ModeDirect by default.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithLogger sets the entry used to report read failures.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLeafCache keeps the resolved trie leaves of the size most recently
// queried addresses. A size of zero or less disables the cache.
func WithLeafCache(size int) Option {
	return func(o *options) {
		o.leafCacheSize = size
	}
}

func newOptions(opts ...Option) options {
	o := options{
		mode:   ModeDirect,
		logger: logrus.NewEntry(logrus.StandardLogger()).WithField("component", "geoip"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
