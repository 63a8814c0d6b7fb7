package cbor

import (
	"math"
	"time"
)

// Lookup returns the descriptor of the value stored under name in the map
// at the cursor. The scan starts from the first pair every time and the
// cursor does not move, so repeated lookups are independent.
//
// After encoding, call Restart to move the cursor back to the top-level
// map before looking fields up.
func (c *Codec) Lookup(name string) (Field, bool) {
	f := c.find(name)
	return f, f.OK()
}

// Has reports whether the map at the cursor holds name.
func (c *Codec) Has(name string) bool {
	_, ok := c.valueOffset(name)
	return ok
}

// Raw returns the encoded bytes of the value stored under name, including
// any tags, or nil.
func (c *Codec) Raw(name string) []byte {
	off, ok := c.valueOffset(name)
	if !ok {
		return nil
	}
	end, err := skip(c.buf, off, 1)
	if err != nil {
		return nil
	}
	return c.buf[off:end]
}

// intOf converts an integer field to T, failing when the field is not an
// integer or its value does not fit T.
func intOf[T Integer](f Field, buf []byte) (T, bool) {
	u := f.value(buf)
	switch f.Major {
	case MajorUint:
		t := T(u)
		if t < 0 || uint64(t) != u {
			return 0, false
		}
		return t, true
	case MajorNegInt:
		if u > math.MaxInt64 || ^T(0) > 0 {
			return 0, false
		}
		n := -1 - int64(u)
		t := T(n)
		if int64(t) != n {
			return 0, false
		}
		return t, true
	}
	return 0, false
}

// Get returns the integer stored under key, or def when it is missing, not
// an integer, tagged (a time or duration), or out of range for T. Any
// integer encoding is accepted regardless of its wire width.
func Get[T Integer](c *Codec, key string, def T) T {
	f := c.find(key)
	if !f.OK() || f.Tagged {
		return def
	}
	if v, ok := intOf[T](f, c.buf); ok {
		return v
	}
	return def
}

// GetInt8 returns the int8 stored under key, or def.
func (c *Codec) GetInt8(key string, def int8) int8 { return Get(c, key, def) }

// GetInt16 returns the int16 stored under key, or def.
func (c *Codec) GetInt16(key string, def int16) int16 { return Get(c, key, def) }

// GetInt32 returns the int32 stored under key, or def.
func (c *Codec) GetInt32(key string, def int32) int32 { return Get(c, key, def) }

// GetInt64 returns the int64 stored under key, or def.
func (c *Codec) GetInt64(key string, def int64) int64 { return Get(c, key, def) }

// GetInt returns the int stored under key, or def.
func (c *Codec) GetInt(key string, def int) int { return Get(c, key, def) }

// GetUint8 returns the uint8 stored under key, or def.
func (c *Codec) GetUint8(key string, def uint8) uint8 { return Get(c, key, def) }

// GetUint16 returns the uint16 stored under key, or def.
func (c *Codec) GetUint16(key string, def uint16) uint16 { return Get(c, key, def) }

// GetUint32 returns the uint32 stored under key, or def.
func (c *Codec) GetUint32(key string, def uint32) uint32 { return Get(c, key, def) }

// GetUint64 returns the uint64 stored under key, or def.
func (c *Codec) GetUint64(key string, def uint64) uint64 { return Get(c, key, def) }

// GetUint returns the uint stored under key, or def.
func (c *Codec) GetUint(key string, def uint) uint { return Get(c, key, def) }

// GetBool returns the bool stored under key, or def.
func (c *Codec) GetBool(key string, def bool) bool {
	f := c.find(key)
	if f.Major != MajorSimple {
		return def
	}
	switch f.Minor {
	case simpleTrue:
		return true
	case simpleFalse:
		return false
	}
	return def
}

// GetFloat32 returns the float32 stored under key, or def. Only a 32-bit
// float is accepted.
func (c *Codec) GetFloat32(key string, def float32) float32 {
	f := c.find(key)
	if f.Major != MajorSimple || f.Minor != simpleFloat32 {
		return def
	}
	return math.Float32frombits(uint32(f.value(c.buf)))
}

// GetFloat64 returns the float64 stored under key, or def. A 32-bit float
// is widened.
func (c *Codec) GetFloat64(key string, def float64) float64 {
	f := c.find(key)
	if f.Major != MajorSimple {
		return def
	}
	switch f.Minor {
	case simpleFloat32:
		return float64(math.Float32frombits(uint32(f.value(c.buf))))
	case simpleFloat64:
		return math.Float64frombits(f.value(c.buf))
	}
	return def
}

// text returns the payload of the text string stored under key.
func (c *Codec) text(key string) ([]byte, bool) {
	f := c.find(key)
	if f.Major != MajorText {
		return nil, false
	}
	return f.contents(c.buf)
}

// GetString returns the text string stored under key, or def. A trailing
// NUL written by a null-terminating encoder is not part of the result.
//
// The string borrows the buffer and must not be used after the buffer is
// modified.
func (c *Codec) GetString(key, def string) string {
	p, ok := c.text(key)
	if !ok {
		return def
	}
	if n := len(p); n > 0 && p[n-1] == 0 {
		p = p[:n-1]
	}
	return borrowString(p)
}

// GetCString returns the payload of the text string stored under key
// including its terminating NUL, so it can be handed to APIs that expect a
// C string. It returns def when the field is missing or was not written
// with a terminator.
func (c *Codec) GetCString(key string, def []byte) []byte {
	p, ok := c.text(key)
	if !ok || len(p) == 0 || p[len(p)-1] != 0 {
		return def
	}
	return p
}

// GetBytes returns the payload of the byte string stored under key, or
// def. The slice borrows the buffer.
func (c *Codec) GetBytes(key string, def []byte) []byte {
	f := c.find(key)
	if f.Major != MajorBytes {
		return def
	}
	p, ok := f.contents(c.buf)
	if !ok {
		return def
	}
	return p
}

// GetTime returns the time stored under key with tag 1001, or def.
func (c *Codec) GetTime(key string, def time.Time) time.Time {
	f := c.find(key)
	if !f.Tagged || f.Tag != TagTime {
		return def
	}
	ns, ok := intOf[int64](f, c.buf)
	if !ok {
		return def
	}
	return time.Unix(0, ns)
}

// GetDuration returns the duration stored under key with tag 1002, or def.
func (c *Codec) GetDuration(key string, def time.Duration) time.Duration {
	f := c.find(key)
	if !f.Tagged || f.Tag != TagDuration {
		return def
	}
	ns, ok := intOf[int64](f, c.buf)
	if !ok {
		return def
	}
	return time.Duration(ns)
}

// IsNull reports whether key holds a null value.
func (c *Codec) IsNull(key string) bool {
	f := c.find(key)
	return f.Major == MajorSimple && f.Minor == simpleNull
}

// Len returns the length of the value stored under key: bytes for byte
// strings, bytes without the trailing NUL for text, pairs for maps and
// items for arrays. It returns 0 for scalars and missing fields.
func (c *Codec) Len(key string) uint32 {
	f := c.find(key)
	switch f.Major {
	case MajorBytes, MajorText:
		p, ok := f.contents(c.buf)
		if !ok {
			return 0
		}
		n := len(p)
		if f.Major == MajorText && n > 0 && p[n-1] == 0 {
			n--
		}
		return uint32(n)
	case MajorArray, MajorMap:
		n, _ := f.length(c.buf)
		return n
	}
	return 0
}

// MapAt binds dst as a read-only navigator over the map stored under key
// and reports whether it was found. dst sees the parent buffer from the
// nested map header to its end.
func (c *Codec) MapAt(key string, dst *Codec) bool {
	f := c.find(key)
	if f.Major != MajorMap {
		return false
	}
	dst.ResetReadOnly(c.buf[f.Offset:])
	return true
}

// GetMap returns a read-only navigator over the map stored under key. A
// missing map yields an empty Codec on which every getter returns its
// default. MapAt does the same without allocating.
func (c *Codec) GetMap(key string) *Codec {
	sub := &Codec{}
	if !c.MapAt(key, sub) {
		sub.ResetReadOnly(nil)
	}
	return sub
}

// Peek returns the descriptor of the item at the cursor.
func (c *Codec) Peek() Field { return readField(c.buf, c.off) }

// MapLen returns the number of pairs in the map at the cursor, or 0 when
// the cursor is not on a map.
func (c *Codec) MapLen() uint32 {
	_, n, _ := c.mapAt()
	return n
}

// Range calls fn for each pair of the map at the cursor in wire order,
// until fn returns false. Keys have their alignment padding removed and
// borrow the buffer. Range returns an error if the map is malformed.
func (c *Codec) Range(fn func(key string, f Field) bool) error {
	m := readField(c.buf, c.off)
	if !m.OK() {
		return headerErr(c.buf, c.off)
	}
	if m.Major != MajorMap {
		return TypeError{Method: MapType, Encoded: m.Type()}
	}
	n, ok := m.length(c.buf)
	if !ok {
		return ErrShortBytes
	}
	off := m.Payload()
	for i := range n {
		k := readHeader(c.buf, off)
		val, err := skip(c.buf, off, 1)
		if err != nil {
			return WrapError(err, int(i))
		}
		key, ok := k.contents(c.buf)
		if !ok || k.Major != MajorText {
			return WrapError(TypeError{Method: StrType, Encoded: k.Type()}, int(i))
		}
		name := borrowString(trimPadding(key))
		if off, err = skip(c.buf, val, 1); err != nil {
			return WrapError(err, name)
		}
		if !fn(name, readField(c.buf, val)) {
			return nil
		}
	}
	return nil
}
