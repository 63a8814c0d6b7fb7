package cbor

// Encoded sizes of the fixed-width values written by the Add methods. For
// strings and byte slices use StringSize and BytesSize; a key costs
// KeySize(key) on top of its value.
const (
	Int8Size     = 2
	Int16Size    = 3
	Int32Size    = 5
	Int64Size    = 9
	IntSize      = Int64Size
	Uint8Size    = Int8Size
	Uint16Size   = Int16Size
	Uint32Size   = Int32Size
	Uint64Size   = Int64Size
	UintSize     = Int64Size
	Float32Size  = 5
	Float64Size  = 9
	BoolSize     = 1
	NilSize      = 1
	TimeSize     = 3 + Int64Size // tag 1001 + int64
	DurationSize = 3 + Int64Size // tag 1002 + int64

	// MapHeaderSize is the header StartMap reserves for up to 255 pairs.
	MapHeaderSize = 2
	// MaxMapHeaderSize is the header reserved for a hint above 65535.
	MaxMapHeaderSize = 5
)

// KeySize returns the encoded size of a map key.
func KeySize(key string) int { return stringSize(len(key)) }

// StringSize returns the encoded size of a text string of n bytes written
// with a terminating NUL.
func StringSize(n int) int { return stringSize(n + 1) }

// BytesSize returns the encoded size of a byte string of n bytes.
func BytesSize(n int) int { return stringSize(n) }

// ArraySize returns an upper bound on the encoded size of a typed array of
// n elements of the given element type, including alignment padding added
// to its key.
func ArraySize(e ElemType, n int) int {
	size := e.Size()
	payload := n * size
	return 2*size + 2 + headerSize(uint32(payload)) + payload
}

// Size returns the exact number of bytes e occupies when encoded as a
// top-level map with null-terminated strings. It encodes into an empty
// Codec and reports BytesNeeded.
func Size(e Encodable) int {
	var c Codec
	c.Reset(nil)
	_ = encodeMap(&c, e)
	return c.BytesNeeded()
}
