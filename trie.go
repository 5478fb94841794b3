package geoip

// nodeReader fills buf with the node bytes stored at an absolute offset.
type nodeReader func(pos int64, buf []byte) error

// decodeUint reads a little-endian unsigned integer of len(b) bytes.
// Every byte is widened to uint32 before shifting.
func decodeUint(b []byte) uint32 {
	var x uint32
	for j := range b {
		x |= uint32(b[j]) << (uint(j) * 8)
	}
	return x
}

// walk descends the trie from the root following the address bits, most
// significant first, and returns the first child pointer that is a leaf
// (>= segmentBase). width is 32 or 128.
func walk(bits bitSource, width, recordWidth int, segmentBase uint32, read nodeReader) (uint32, error) {
	nodeSize := 2 * recordWidth
	buf := make([]byte, nodeSize)
	var offset uint32
	for depth := width - 1; depth >= 0; depth-- {
		if err := read(int64(offset)*int64(nodeSize), buf); err != nil {
			return 0, err
		}
		var next uint32
		if bits(depth) {
			next = decodeUint(buf[recordWidth:])
		} else {
			next = decodeUint(buf[:recordWidth])
		}
		if next >= segmentBase {
			return next, nil
		}
		offset = next
	}
	return 0, corruptf("trie walk did not reach a leaf within %d bits", width)
}
