package cbor

import "errors"

// errBadPrefix marks an initial byte with reserved or indefinite additional
// info. Skip turns it into an InvalidPrefixError carrying the offset.
var errBadPrefix = errors.New("cbor: unsupported initial byte")

// headerErr explains why readHeader failed at off.
func headerErr(buf []byte, off int) error {
	if b, ok := span(buf, off, 1); ok && argSize[getAddInfo(b[0])] == 0 {
		return errBadPrefix
	}
	return ErrShortBytes
}

// skip returns the offset just past the item at off. Arrays and maps are
// skipped element by element. On failure the returned offset is where the
// bad item starts.
func skip(buf []byte, off, depth int) (int, error) {
	if depth > recursionLimit {
		return off, ErrMaxDepthExceeded
	}
	f := readHeader(buf, off)
	if !f.OK() {
		return off, headerErr(buf, off)
	}
	switch f.Major {
	case MajorTag:
		if f.HeaderLen > 3 {
			return off, ErrUnsupportedTag
		}
		return skip(buf, f.Payload(), depth+1)

	case MajorBytes, MajorText:
		p, ok := f.contents(buf)
		if !ok {
			return off, ErrShortBytes
		}
		return f.Payload() + len(p), nil

	case MajorArray, MajorMap:
		n, ok := f.length(buf)
		if !ok {
			return off, errBadPrefix
		}
		items := uint64(n)
		if f.Major == MajorMap {
			items *= 2
		}
		next := f.Payload()
		var err error
		for range items {
			if next, err = skip(buf, next, depth+1); err != nil {
				return next, err
			}
		}
		return next, nil

	default:
		// Integers, simple values and floats are entirely in the header.
		return f.Payload(), nil
	}
}

// Skip skips over the next CBOR object and returns the bytes after it.
func Skip(b []byte) ([]byte, error) {
	next, err := skip(b, 0, 0)
	if err != nil {
		if err == errBadPrefix {
			return b, InvalidPrefixError{Prefix: b[next], Offset: next}
		}
		return b, err
	}
	return b[next:], nil
}

// matchKey reports whether key names name. Zero bytes after the name are
// alignment padding and are ignored.
func matchKey(key []byte, name string) bool {
	if name == "" || len(key) < len(name) || string(key[:len(name)]) != name {
		return false
	}
	for _, b := range key[len(name):] {
		if b != 0 {
			return false
		}
	}
	return true
}

// trimPadding strips the trailing zero bytes of a key.
func trimPadding(key []byte) []byte {
	for len(key) > 0 && key[len(key)-1] == 0 {
		key = key[:len(key)-1]
	}
	return key
}

// mapAt returns the header of the map at the cursor and its pair count.
func (c *Codec) mapAt() (Field, uint32, bool) {
	m := readField(c.buf, c.off)
	if m.Major != MajorMap {
		return errField, 0, false
	}
	n, ok := m.length(c.buf)
	if !ok {
		return errField, 0, false
	}
	return m, n, true
}

// valueOffset scans the map at the cursor for name and returns the offset
// of its value. The cursor is left untouched.
func (c *Codec) valueOffset(name string) (int, bool) {
	m, n, ok := c.mapAt()
	if !ok {
		return 0, false
	}
	off := m.Payload()
	for range n {
		k := readHeader(c.buf, off)
		val, err := skip(c.buf, off, 1)
		if err != nil {
			return 0, false
		}
		if k.Major == MajorText {
			if key, ok := k.contents(c.buf); ok && matchKey(key, name) {
				return val, true
			}
		}
		if off, err = skip(c.buf, val, 1); err != nil {
			return 0, false
		}
	}
	return 0, false
}

// find returns the descriptor of the value stored under name in the map at
// the cursor, or an error descriptor.
func (c *Codec) find(name string) Field {
	off, ok := c.valueOffset(name)
	if !ok {
		return errField
	}
	return readField(c.buf, off)
}
