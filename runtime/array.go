package cbor

import (
	"encoding/binary"
	"math"
	"math/bits"
	"unsafe"
)

// Numeric is the set of element types that can be stored as a typed array.
type Numeric interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// ElemType identifies the element type of a typed array.
type ElemType uint8

// Element types
const (
	ElemInvalid ElemType = iota
	ElemUint8
	ElemUint16
	ElemUint32
	ElemUint64
	ElemInt8
	ElemInt16
	ElemInt32
	ElemInt64
	ElemFloat32
	ElemFloat64
)

var elemTags = [...]Tag{
	ElemInvalid: 0,
	ElemUint8:   TagUint8Array,
	ElemUint16:  TagUint16Array,
	ElemUint32:  TagUint32Array,
	ElemUint64:  TagUint64Array,
	ElemInt8:    TagInt8Array,
	ElemInt16:   TagInt16Array,
	ElemInt32:   TagInt32Array,
	ElemInt64:   TagInt64Array,
	ElemFloat32: TagFloat32Array,
	ElemFloat64: TagFloat64Array,
}

var elemSizes = [...]int{
	ElemInvalid: 0,
	ElemUint8:   1,
	ElemUint16:  2,
	ElemUint32:  4,
	ElemUint64:  8,
	ElemInt8:    1,
	ElemInt16:   2,
	ElemInt32:   4,
	ElemInt64:   8,
	ElemFloat32: 4,
	ElemFloat64: 8,
}

// Tag returns the wire tag for arrays of e.
func (e ElemType) Tag() Tag {
	if int(e) >= len(elemTags) {
		return 0
	}
	return elemTags[e]
}

// Size returns the size of one element in bytes, 0 for ElemInvalid.
func (e ElemType) Size() int {
	if int(e) >= len(elemSizes) {
		return 0
	}
	return elemSizes[e]
}

// elemTypeOf maps T to its element type.
func elemTypeOf[T Numeric]() ElemType {
	var z T
	switch any(z).(type) {
	case uint8:
		return ElemUint8
	case uint16:
		return ElemUint16
	case uint32:
		return ElemUint32
	case uint64:
		return ElemUint64
	case int8:
		return ElemInt8
	case int16:
		return ElemInt16
	case int32:
		return ElemInt32
	case int64:
		return ElemInt64
	case float32:
		return ElemFloat32
	case float64:
		return ElemFloat64
	}
	return ElemInvalid
}

// ElemTypeOfTag returns the element type a typed array tag stands for, or
// ElemInvalid if tag is not a typed array tag.
func ElemTypeOfTag(tag Tag) ElemType {
	for e, t := range elemTags {
		if e != int(ElemInvalid) && t == tag {
			return ElemType(e)
		}
	}
	return ElemInvalid
}

// elemSize returns the element size for a typed array tag, 0 otherwise.
func elemSize(tag Tag) int { return ElemTypeOfTag(tag).Size() }

// hostLittleEndian is true when in-memory element bytes match the wire
// order, so arrays can be copied and borrowed without conversion.
var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// asBytes views the elements of v as raw bytes.
func asBytes[T Numeric](v []T) []byte {
	if len(v) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v))), len(v)*int(unsafe.Sizeof(z)))
}

// swapElems reverses the byte order of every size-byte element in b.
func swapElems(b []byte, size int) {
	switch size {
	case 2:
		for i := 0; i+2 <= len(b); i += 2 {
			binary.LittleEndian.PutUint16(b[i:], bits.ReverseBytes16(binary.LittleEndian.Uint16(b[i:])))
		}
	case 4:
		for i := 0; i+4 <= len(b); i += 4 {
			binary.LittleEndian.PutUint32(b[i:], bits.ReverseBytes32(binary.LittleEndian.Uint32(b[i:])))
		}
	case 8:
		for i := 0; i+8 <= len(b); i += 8 {
			binary.LittleEndian.PutUint64(b[i:], bits.ReverseBytes64(binary.LittleEndian.Uint64(b[i:])))
		}
	}
}

// AddArray adds v as a typed array: the element type's tag followed by a
// byte string of the little-endian element bytes.
//
// With align set and a non-empty key, zero bytes are appended inside the
// key string so that the payload starts at an offset that is a multiple of
// the element size. The padding is computed from BytesNeeded, so a dry run
// into a short buffer lays out exactly the same bytes as the real encode.
func AddArray[T Numeric](c *Codec, key string, v []T, align bool) error {
	et := elemTypeOf[T]()
	size := et.Size()
	n := len(v) * size
	if uint64(n) > math.MaxUint32 {
		if c.err == nil {
			c.err = ErrCapacityExceeded
		}
		return c.err
	}
	pad := 0
	if align && key != "" {
		pad = alignPadding(c.needed, len(key), et.Tag(), n, size)
	}
	c.writePaddedKey(key, pad)
	c.writeTag(et.Tag())
	c.writeHeader(MajorBytes, uint32(n))
	if dst := c.reserve(n); dst != nil {
		copy(dst, asBytes(v))
		if !hostLittleEndian {
			swapElems(dst, size)
		}
	}
	return c.err
}

// writePaddedKey is writeKey with pad zero bytes after the key text.
func (c *Codec) writePaddedKey(key string, pad int) {
	if pad == 0 {
		c.writeKey(key)
		return
	}
	if c.depth > 0 {
		c.frames[c.depth-1].count++
	}
	c.writeString(MajorText, key, pad)
}

// arrayPayload returns the payload of the typed array named key if its tag
// matches T and its length is a whole number of elements.
func arrayPayload[T Numeric](c *Codec, key string) ([]byte, bool) {
	f, ok := c.Lookup(key)
	if !ok || f.Major != MajorBytes {
		return nil, false
	}
	et := elemTypeOf[T]()
	if !f.Tagged || f.Tag != et.Tag() {
		return nil, false
	}
	p, ok := f.contents(c.buf)
	if !ok || len(p)%et.Size() != 0 {
		return nil, false
	}
	return p, true
}

// GetArray returns the typed array named key as a slice that borrows the
// buffer. It returns def when the field is missing, has another element
// type, or cannot be viewed in place: the payload must be aligned for T and
// the host must be little-endian. CopyArray works in every case.
//
// The returned slice is valid only while the buffer is not modified.
func GetArray[T Numeric](c *Codec, key string, def []T) []T {
	p, ok := arrayPayload[T](c, key)
	if !ok || !hostLittleEndian {
		return def
	}
	var z T
	size := int(unsafe.Sizeof(z))
	if len(p) == 0 {
		return []T{}
	}
	ptr := unsafe.Pointer(unsafe.SliceData(p))
	if uintptr(ptr)%unsafe.Alignof(z) != 0 {
		return def
	}
	return unsafe.Slice((*T)(ptr), len(p)/size)
}

// CopyArray decodes the typed array named key into dst and returns the
// number of elements copied, which is the smaller of the array length and
// len(dst). ok is false when the field is missing or has another element
// type.
func CopyArray[T Numeric](c *Codec, key string, dst []T) (n int, ok bool) {
	p, ok := arrayPayload[T](c, key)
	if !ok {
		return 0, false
	}
	var z T
	size := int(unsafe.Sizeof(z))
	n = min(len(dst), len(p)/size)
	out := asBytes(dst[:n])
	copy(out, p)
	if !hostLittleEndian {
		swapElems(out, size)
	}
	return n, true
}

// ArrayLen returns the number of elements in the typed array named key, or
// 0 when it is missing or has another element type.
func ArrayLen[T Numeric](c *Codec, key string) int {
	p, ok := arrayPayload[T](c, key)
	if !ok {
		return 0
	}
	return len(p) / elemTypeOf[T]().Size()
}
