package cbor

// mapFrame records one map opened by StartMap and not yet closed.
type mapFrame struct {
	start int    // offset of the map header
	width int    // header bytes reserved at start
	hint  uint32 // count written by StartMap
	count uint32 // keys added since StartMap
}

// MapHandle identifies a map opened by StartMap. It is the only way to
// close that map.
type MapHandle struct {
	depth int // 1-based nesting level, 0 if the map was never opened
	start int
}

// Valid reports whether the handle refers to an opened map.
func (h MapHandle) Valid() bool { return h.depth > 0 }

// StartMap opens a map. hint is the expected number of key/value pairs and
// only sizes the header: the header is always reserved wide enough for at
// least 255 pairs, and EndMap writes the real count into it.
//
// Opening more than MaxNesting maps latches ErrNestingOverflow and writes
// nothing.
func (c *Codec) StartMap(hint uint32) (MapHandle, error) {
	if c.readOnly {
		if c.err == nil {
			c.err = ErrReadOnly
		}
		return MapHandle{}, c.err
	}
	if c.depth >= MaxNesting {
		if c.err == nil {
			c.err = ErrNestingOverflow
		}
		return MapHandle{}, c.err
	}
	width := max(headerSize(hint), 2)
	f := &c.frames[c.depth]
	*f = mapFrame{start: c.off, width: width, hint: hint}
	c.depth++
	if dst := c.reserve(width); dst != nil {
		putHeaderWidth(dst, MajorMap, hint, width)
	}
	return MapHandle{depth: c.depth, start: f.start}, c.err
}

// StartMapField adds key to the enclosing map and opens a nested map as its
// value.
func (c *Codec) StartMapField(key string, hint uint32) (MapHandle, error) {
	if c.readOnly {
		return c.StartMap(hint)
	}
	if c.depth >= MaxNesting {
		if c.err == nil {
			c.err = ErrNestingOverflow
		}
		return MapHandle{}, c.err
	}
	c.writeKey(key)
	return c.StartMap(hint)
}

// EndMap closes the map opened with h. If the number of pairs added differs
// from the hint, the count is rewritten into the header reserved by
// StartMap. This is the only place the Codec modifies bytes it has already
// written, and it never touches bytes outside that header.
func (c *Codec) EndMap(h MapHandle) error {
	if !h.Valid() {
		return c.err
	}
	if h.depth != c.depth || c.frames[c.depth-1].start != h.start {
		if c.err == nil {
			c.err = ErrUnbalancedMap
		}
		return c.err
	}
	f := c.frames[c.depth-1]
	c.depth--
	if c.err != nil || f.count == f.hint {
		return c.err
	}
	if !fitsWidth(f.count, f.width) {
		c.err = ErrMapTooLarge
		return c.err
	}
	putHeaderWidth(c.buf[f.start:f.start+f.width], MajorMap, f.count, f.width)
	return nil
}

// alignPadding returns how many zero bytes to append to a key of keyLen
// bytes, written at offset off, so that the payload of the typed array that
// follows starts at a multiple of size.
func alignPadding(off, keyLen int, tag Tag, payloadLen, size int) int {
	if size <= 1 {
		return 0
	}
	pad := 0
	// The key header can widen as padding is added; each widening needs
	// another pass and there are at most three.
	for range 4 {
		start := off + stringSize(keyLen+pad) + tagSize(tag) + headerSize(uint32(payloadLen))
		odd := start % size
		if odd == 0 {
			break
		}
		pad += size - odd
	}
	return pad
}
