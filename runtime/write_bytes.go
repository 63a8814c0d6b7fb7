package cbor

import "math"

// reserve accounts for n more bytes and returns the region of the buffer to
// fill, or nil when nothing may be written. BytesNeeded grows even when the
// write is refused so a failed encode still reports the size it wanted.
func (c *Codec) reserve(n int) []byte {
	c.needed += n
	if c.err != nil {
		return nil
	}
	if c.readOnly {
		c.err = ErrReadOnly
		return nil
	}
	dst, ok := span(c.buf, c.off, n)
	if !ok || c.needed > len(c.buf) {
		c.err = ErrCapacityExceeded
		return nil
	}
	c.off += n
	return dst
}

// writeByte appends a single-byte item.
func (c *Codec) writeByte(v byte) {
	if dst := c.reserve(1); dst != nil {
		dst[0] = v
	}
}

// writeHeader appends the smallest header for (major, length).
func (c *Codec) writeHeader(major Major, length uint32) {
	if dst := c.reserve(headerSize(length)); dst != nil {
		putHeader(dst, major, length)
	}
}

// writeTag appends a tag item.
func (c *Codec) writeTag(tag Tag) {
	if dst := c.reserve(tagSize(tag)); dst != nil {
		putTag(dst, tag)
	}
}

// writeUintWidth appends u with a fixed trailing width of 1, 2, 4 or 8
// bytes, regardless of its magnitude.
func (c *Codec) writeUintWidth(major Major, u uint64, width int) {
	dst := c.reserve(1 + width)
	if dst == nil {
		return
	}
	switch width {
	case 1:
		dst[0] = makeByte(major, addInfoUint8)
		dst[1] = uint8(u)
	case 2:
		dst[0] = makeByte(major, addInfoUint16)
		be.PutUint16(dst[1:], uint16(u))
	case 4:
		dst[0] = makeByte(major, addInfoUint32)
		be.PutUint32(dst[1:], uint32(u))
	default:
		dst[0] = makeByte(major, addInfoUint64)
		be.PutUint64(dst[1:], u)
	}
}

// writeUintMinimal appends u in the narrowest form that holds it.
func (c *Codec) writeUintMinimal(major Major, u uint64) {
	switch {
	case u <= addInfoDirect:
		c.writeByte(makeByte(major, uint8(u)))
	case u <= math.MaxUint8:
		c.writeUintWidth(major, u, 1)
	case u <= math.MaxUint16:
		c.writeUintWidth(major, u, 2)
	case u <= math.MaxUint32:
		c.writeUintWidth(major, u, 4)
	default:
		c.writeUintWidth(major, u, 8)
	}
}

// writeString appends a byte or text string holding data followed by pad
// zero bytes. The zero bytes are part of the encoded length.
func (c *Codec) writeString(major Major, data string, pad int) {
	n := uint32(len(data) + pad)
	h := headerSize(n)
	dst := c.reserve(h + int(n))
	if dst == nil {
		return
	}
	putHeader(dst, major, n)
	copy(dst[h:], data)
	clear(dst[h+len(data):])
}

// writeBytes is writeString for []byte contents.
func (c *Codec) writeBytes(major Major, data []byte) {
	n := uint32(len(data))
	h := headerSize(n)
	dst := c.reserve(h + int(n))
	if dst == nil {
		return
	}
	putHeader(dst, major, n)
	copy(dst[h:], data)
}

// writeKey appends a map key and counts it against the innermost open map.
// An empty key writes nothing, which is how unkeyed list items are added.
func (c *Codec) writeKey(key string) {
	if key == "" {
		return
	}
	if c.depth > 0 {
		c.frames[c.depth-1].count++
	}
	c.writeString(MajorText, key, 0)
}

// stringSize returns the encoded size of a string item of n bytes.
func stringSize(n int) int {
	return headerSize(uint32(n)) + n
}
