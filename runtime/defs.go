// Package cbor is a small fixed-buffer CBOR codec for constrained targets.
//
// A Codec is bound to a caller-owned []byte and never allocates or grows it.
// Encoding appends map fields in place:
//
//	buf := make([]byte, 256)
//	c := cbor.NewCodec(buf)
//	m, _ := c.StartMap(0)
//	c.AddInt32("i32", 12345678)
//	cbor.AddArray(c, "vec", []int32{1, 2, 3, 4}, true)
//	c.EndMap(m)
//
// Decoding looks fields up by name without building an object tree:
//
//	r := cbor.NewReadOnlyCodec(buf)
//	i32 := r.GetInt32("i32", -1)
//	vec := cbor.GetArray[int32](r, "vec", nil)
//
// Encode errors are sticky: once the buffer overflows, later appends are
// dropped but BytesNeeded keeps counting, so a zero-length Codec can be used
// to size a buffer before encoding for real.
//
// Strings and typed arrays returned by the getters borrow the backing
// buffer. They are valid only while the buffer is unchanged; any later
// encode on the same buffer invalidates them.
package cbor

// Major is the CBOR major type of an item (3 bits on the wire).
// MajorError never appears on the wire; it marks a failed decode.
type Major uint8

// CBOR major types
const (
	MajorUint   Major = 0 // unsigned integer
	MajorNegInt Major = 1 // negative integer
	MajorBytes  Major = 2 // byte string
	MajorText   Major = 3 // text string
	MajorArray  Major = 4 // array
	MajorMap    Major = 5 // map
	MajorTag    Major = 6 // semantic tag
	MajorSimple Major = 7 // float, simple values
	MajorError  Major = 8 // decode failure
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect = 23 // max direct value
	addInfoUint8  = 24 // 1-byte uint8 follows
	addInfoUint16 = 25 // 2-byte uint16 follows
	addInfoUint32 = 26 // 4-byte uint32 follows
	addInfoUint64 = 27 // 8-byte uint64 follows
)

// Simple values in major type 7
const (
	simpleFalse   = 20
	simpleTrue    = 21
	simpleNull    = 22
	simpleFloat32 = 26
	simpleFloat64 = 27
)

// Initial bytes of the simple values this codec writes.
const (
	False   byte = byte(MajorSimple)<<5 | simpleFalse   // 0xf4
	True    byte = byte(MajorSimple)<<5 | simpleTrue    // 0xf5
	Null    byte = byte(MajorSimple)<<5 | simpleNull    // 0xf6
	Float32 byte = byte(MajorSimple)<<5 | simpleFloat32 // 0xfa
	Float64 byte = byte(MajorSimple)<<5 | simpleFloat64 // 0xfb
)

// Tag is a CBOR semantic tag number. Only tags below 65536 are supported.
type Tag uint16

// Tags written and recognized by the codec. The typed array tags are the
// little-endian variants from RFC 8746.
const (
	TagHomogeneousArray Tag = 41
	TagUint8Array       Tag = 64
	TagUint16Array      Tag = 69
	TagUint32Array      Tag = 70
	TagUint64Array      Tag = 71
	TagInt8Array        Tag = 72
	TagInt16Array       Tag = 77
	TagInt32Array       Tag = 78
	TagInt64Array       Tag = 79
	TagFloat32Array     Tag = 85
	TagFloat64Array     Tag = 86
	TagTime             Tag = 1001 // int64 Unix nanoseconds
	TagDuration         Tag = 1002 // int64 nanoseconds
)

const (
	// MaxNesting is the maximum number of maps that may be open at once
	// while encoding.
	MaxNesting = 4

	// recursionLimit bounds the depth of Skip, Validate and Diag over
	// decoded data.
	recursionLimit = 64
)

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(major Major, addInfo uint8) byte {
	return byte(major)<<5 | addInfo
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) Major {
	return Major(b >> 5)
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// String implements fmt.Stringer
func (m Major) String() string {
	switch m {
	case MajorUint:
		return "uint"
	case MajorNegInt:
		return "negint"
	case MajorBytes:
		return "bytes"
	case MajorText:
		return "text"
	case MajorArray:
		return "array"
	case MajorMap:
		return "map"
	case MajorTag:
		return "tag"
	case MajorSimple:
		return "simple"
	default:
		return "<error>"
	}
}

// Type represents the decoded kind of a field.
type Type byte

// Field types
const (
	InvalidType Type = iota

	StrType        // text string
	BinType        // byte string
	MapType        // map
	ArrayType      // array
	TypedArrayType // tagged byte string holding numeric elements
	Float64Type    // float64
	Float32Type    // float32
	BoolType       // bool
	IntType        // negative integer
	UintType       // unsigned integer
	NilType        // nil
	DurationType   // duration (tag 1002)
	TimeType       // time (tag 1001)
)

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case StrType:
		return "str"
	case BinType:
		return "bin"
	case MapType:
		return "map"
	case ArrayType:
		return "array"
	case TypedArrayType:
		return "typedarray"
	case Float64Type:
		return "float64"
	case Float32Type:
		return "float32"
	case BoolType:
		return "bool"
	case UintType:
		return "uint"
	case IntType:
		return "int"
	case NilType:
		return "nil"
	case TimeType:
		return "time"
	case DurationType:
		return "duration"
	default:
		return "<invalid>"
	}
}

// Encodable is implemented by types that know how to add themselves as
// fields of the map currently open on a Codec.
type Encodable interface {
	EncodeMicroCBOR(c *Codec) error
}

// Decodable is implemented by types that know how to read their fields
// from the map at the cursor of a Codec.
type Decodable interface {
	DecodeMicroCBOR(c *Codec) error
}
