package geoip

import "github.com/pkg/errors"

var (
	// ErrClosed is returned by every query issued after Close.
	ErrClosed = errors.New("geoip: database has been closed")

	// ErrCorruptDatabase marks a database whose content cannot be decoded:
	// a trie walk that never reaches a leaf, or a country index outside the
	// country table.
	ErrCorruptDatabase = errors.New("geoip: corrupt or unsupported database")
)

func corruptf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrCorruptDatabase, format, args...)
}
