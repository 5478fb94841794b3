package geoip

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// dbStream owns the database bytes: either the caller's seekable stream or
// an in-memory copy of it. All positioning is absolute; callers serialize
// access because seek and read share one cursor.
type dbStream struct {
	src    io.ReadSeeker
	closer io.Closer
	length int64

	// index holds the trie region when the index cache is enabled.
	index []byte
}

func newDBStream(r io.ReadSeeker, cached bool) (*dbStream, error) {
	stream := &dbStream{src: r}
	if c, ok := r.(io.Closer); ok {
		stream.closer = c
	}
	if cached {
		if err := stream.loadIntoMemory(); err != nil {
			return nil, err
		}
	}
	length, err := stream.src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to measure database")
	}
	stream.length = length
	return stream, nil
}

// loadIntoMemory copies the whole source into a buffer and releases the source.
func (stream *dbStream) loadIntoMemory() error {
	if _, err := stream.src.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "failed to rewind database")
	}
	buf, err := io.ReadAll(stream.src)
	if err != nil {
		return errors.Wrap(err, "failed to load database into memory")
	}
	if stream.closer != nil {
		if err := stream.closer.Close(); err != nil {
			return errors.Wrap(err, "failed to release database source")
		}
	}
	stream.src = bytes.NewReader(buf)
	stream.closer = nil
	return nil
}

// cacheIndex keeps the first size bytes of the stream in memory.
func (stream *dbStream) cacheIndex(size int64) error {
	if size > stream.length {
		size = stream.length
	}
	buf := make([]byte, size)
	if _, err := stream.readAt(0, buf); err != nil {
		return errors.Wrap(err, "failed to load trie index")
	}
	stream.index = buf
	return nil
}

func (stream *dbStream) seekPos(pos int64) error {
	_, err := stream.src.Seek(pos, io.SeekStart)
	return err
}

// readAt fills buf from pos, failing on a short read.
func (stream *dbStream) readAt(pos int64, buf []byte) (int, error) {
	if err := stream.seekPos(pos); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(stream.src, buf)
	if err != nil {
		return n, errors.Wrap(err, fmt.Sprintf("tried to read %d bytes at %d but got %d", len(buf), pos, n))
	}
	return n, nil
}

// readUpTo reads at most count bytes from pos, stopping at end of stream.
func (stream *dbStream) readUpTo(pos int64, count int) ([]byte, error) {
	if pos < 0 || pos >= stream.length {
		return nil, errors.Errorf("record offset %d outside database of %d bytes", pos, stream.length)
	}
	if rest := stream.length - pos; rest < int64(count) {
		count = int(rest)
	}
	buf := make([]byte, count)
	if _, err := stream.readAt(pos, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readNode fills buf with the trie node stored at pos.
func (stream *dbStream) readNode(pos int64, buf []byte) error {
	if end := pos + int64(len(buf)); stream.index != nil && end <= int64(len(stream.index)) {
		copy(buf, stream.index[pos:end])
		return nil
	}
	_, err := stream.readAt(pos, buf)
	return err
}

func (stream *dbStream) getLength() int64 {
	return stream.length
}

func (stream *dbStream) close() error {
	stream.src = nil
	stream.index = nil
	if stream.closer == nil {
		return nil
	}
	return stream.closer.Close()
}
