package cbor

import "encoding/binary"

var be = binary.BigEndian

// Field describes one decoded item: its type, the tag that preceded it (if
// any) and where it sits in the buffer. A Field is only meaningful for the
// buffer it was read from.
type Field struct {
	Major     Major
	Minor     uint8
	Tag       Tag  // outermost tag, meaningful only when Tagged
	Tagged    bool // a tag preceded the item
	HeaderLen int // bytes in the initial byte plus trailing argument
	Offset    int // buffer offset of the initial byte
}

// errField is the descriptor returned for any failed read.
var errField = Field{Major: MajorError}

// OK reports whether the field was decoded.
func (f Field) OK() bool { return f.Major != MajorError }

// Payload returns the buffer offset just past the header, where string,
// byte string and container contents begin.
func (f Field) Payload() int { return f.Offset + f.HeaderLen }

// span returns buf[off:off+n] when that range lies inside buf. Every read
// of encoded bytes goes through here.
func span(buf []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(buf) || len(buf)-off < n {
		return nil, false
	}
	return buf[off : off+n], true
}

// headerSize returns the encoded size of a header carrying length.
func headerSize(length uint32) int {
	switch {
	case length <= addInfoDirect:
		return 1
	case length <= 0xff:
		return 2
	case length <= 0xffff:
		return 3
	default:
		return 5
	}
}

// tagSize returns the encoded size of a tag item.
func tagSize(tag Tag) int {
	switch {
	case tag <= addInfoDirect:
		return 1
	case tag <= 0xff:
		return 2
	default:
		return 3
	}
}

// argSize maps additional info to the header length, 0 for reserved and
// indefinite values.
var argSize = [32]uint8{
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 2, 3, 5, 9, 0, 0, 0, 0,
}

// putHeader writes the smallest header for (major, length) into dst and
// returns the number of bytes written. dst must hold headerSize(length).
func putHeader(dst []byte, major Major, length uint32) int {
	return putHeaderWidth(dst, major, length, headerSize(length))
}

// putHeaderWidth writes length using exactly width bytes. Used by EndMap to
// rewrite a count into the header StartMap reserved.
func putHeaderWidth(dst []byte, major Major, length uint32, width int) int {
	switch width {
	case 1:
		dst[0] = makeByte(major, uint8(length))
	case 2:
		dst[0] = makeByte(major, addInfoUint8)
		dst[1] = uint8(length)
	case 3:
		dst[0] = makeByte(major, addInfoUint16)
		be.PutUint16(dst[1:], uint16(length))
	default:
		dst[0] = makeByte(major, addInfoUint32)
		be.PutUint32(dst[1:], length)
		width = 5
	}
	return width
}

// fitsWidth reports whether length can be written in a header of width
// bytes.
func fitsWidth(length uint32, width int) bool {
	switch width {
	case 1:
		return length <= addInfoDirect
	case 2:
		return length <= 0xff
	case 3:
		return length <= 0xffff
	default:
		return true
	}
}

// putTag writes a tag item and returns the number of bytes written.
func putTag(dst []byte, tag Tag) int {
	switch tagSize(tag) {
	case 1:
		dst[0] = makeByte(MajorTag, uint8(tag))
		return 1
	case 2:
		dst[0] = makeByte(MajorTag, addInfoUint8)
		dst[1] = uint8(tag)
		return 2
	default:
		dst[0] = makeByte(MajorTag, addInfoUint16)
		be.PutUint16(dst[1:], uint16(tag))
		return 3
	}
}

// readHeader decodes the header at off without resolving tags. A header
// that is reserved, indefinite or runs past the buffer yields errField.
func readHeader(buf []byte, off int) Field {
	b, ok := span(buf, off, 1)
	if !ok {
		return errField
	}
	minor := getAddInfo(b[0])
	n := int(argSize[minor])
	if n == 0 {
		return errField
	}
	if _, ok := span(buf, off, n); !ok {
		return errField
	}
	return Field{
		Major:     getMajorType(b[0]),
		Minor:     minor,
		HeaderLen: n,
		Offset:    off,
	}
}

// readField decodes the item at off, resolving through any tags. The
// outermost tag is attached to the returned descriptor.
func readField(buf []byte, off int) Field {
	f := readHeader(buf, off)
	var tag Tag
	tagged := false
	for f.Major == MajorTag {
		if f.HeaderLen > 3 {
			return errField
		}
		if !tagged {
			tag, tagged = Tag(f.value(buf)), true
		}
		f = readHeader(buf, f.Payload())
	}
	if f.OK() {
		f.Tag, f.Tagged = tag, tagged
	}
	return f
}

// value returns the argument carried by the header: the inline value, the
// length of a string or container, the count of a map, the tag number or
// the raw bits of a float.
func (f Field) value(buf []byte) uint64 {
	p := buf[f.Offset+1 : f.Offset+f.HeaderLen]
	switch f.HeaderLen {
	case 1:
		return uint64(f.Minor)
	case 2:
		return uint64(p[0])
	case 3:
		return uint64(be.Uint16(p))
	case 5:
		return uint64(be.Uint32(p))
	case 9:
		return be.Uint64(p)
	default:
		return 0
	}
}

// length returns the 32-bit length or count of a string or container.
// The 8-byte argument form is only valid for scalars.
func (f Field) length(buf []byte) (uint32, bool) {
	if !f.OK() || f.HeaderLen > 5 {
		return 0, false
	}
	return uint32(f.value(buf)), true
}

// contents returns the payload of a byte or text string.
func (f Field) contents(buf []byte) ([]byte, bool) {
	if f.Major != MajorBytes && f.Major != MajorText {
		return nil, false
	}
	n, ok := f.length(buf)
	if !ok {
		return nil, false
	}
	return span(buf, f.Payload(), int(n))
}

// Type classifies the field for callers and error messages.
func (f Field) Type() Type {
	switch f.Major {
	case MajorUint, MajorNegInt:
		switch {
		case f.Tagged && f.Tag == TagTime:
			return TimeType
		case f.Tagged && f.Tag == TagDuration:
			return DurationType
		}
		if f.Major == MajorNegInt {
			return IntType
		}
		return UintType
	case MajorBytes:
		switch {
		case !f.Tagged:
			return BinType
		case elemSize(f.Tag) > 0:
			return TypedArrayType
		}
		return BinType
	case MajorText:
		return StrType
	case MajorArray:
		return ArrayType
	case MajorMap:
		return MapType
	case MajorSimple:
		switch f.Minor {
		case simpleTrue, simpleFalse:
			return BoolType
		case simpleNull:
			return NilType
		case simpleFloat32:
			return Float32Type
		case simpleFloat64:
			return Float64Type
		}
	}
	return InvalidType
}
