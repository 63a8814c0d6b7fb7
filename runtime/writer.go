package cbor

import (
	"math"
	"time"
	"unsafe"
)

// Integer is the set of integer types accepted by the generic integer
// accessors.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// AddInteger adds key with an integer value whose wire width is the width
// of T: an int16 always takes 3 bytes and an int64 always takes 9, however
// small the value. Negative values use major type 1 with argument -1-v.
func AddInteger[T Integer](c *Codec, key string, v T) error {
	c.writeKey(key)
	width := int(unsafe.Sizeof(v))
	if v < 0 {
		c.writeUintWidth(MajorNegInt, uint64(-1-int64(v)), width)
	} else {
		c.writeUintWidth(MajorUint, uint64(v), width)
	}
	return c.err
}

// AddMinimal adds key with an integer value in the narrowest encoding that
// holds it, independent of T.
func AddMinimal[T Integer](c *Codec, key string, v T) error {
	c.writeKey(key)
	if v < 0 {
		c.writeUintMinimal(MajorNegInt, uint64(-1-int64(v)))
	} else {
		c.writeUintMinimal(MajorUint, uint64(v))
	}
	return c.err
}

// AddInt8 adds an int8 using a 2-byte encoding.
func (c *Codec) AddInt8(key string, v int8) error { return AddInteger(c, key, v) }

// AddInt16 adds an int16 using a 3-byte encoding.
func (c *Codec) AddInt16(key string, v int16) error { return AddInteger(c, key, v) }

// AddInt32 adds an int32 using a 5-byte encoding.
func (c *Codec) AddInt32(key string, v int32) error { return AddInteger(c, key, v) }

// AddInt64 adds an int64 using a 9-byte encoding.
func (c *Codec) AddInt64(key string, v int64) error { return AddInteger(c, key, v) }

// AddInt adds an int using the width of int on this platform.
func (c *Codec) AddInt(key string, v int) error { return AddInteger(c, key, v) }

// AddUint8 adds a uint8 using a 2-byte encoding.
func (c *Codec) AddUint8(key string, v uint8) error { return AddInteger(c, key, v) }

// AddUint16 adds a uint16 using a 3-byte encoding.
func (c *Codec) AddUint16(key string, v uint16) error { return AddInteger(c, key, v) }

// AddUint32 adds a uint32 using a 5-byte encoding.
func (c *Codec) AddUint32(key string, v uint32) error { return AddInteger(c, key, v) }

// AddUint64 adds a uint64 using a 9-byte encoding.
func (c *Codec) AddUint64(key string, v uint64) error { return AddInteger(c, key, v) }

// AddUint adds a uint using the width of uint on this platform.
func (c *Codec) AddUint(key string, v uint) error { return AddInteger(c, key, v) }

// AddIntMinimal adds a signed integer in its shortest encoding.
func (c *Codec) AddIntMinimal(key string, v int64) error { return AddMinimal(c, key, v) }

// AddUintMinimal adds an unsigned integer in its shortest encoding.
func (c *Codec) AddUintMinimal(key string, v uint64) error { return AddMinimal(c, key, v) }

// AddBool adds a bool.
func (c *Codec) AddBool(key string, v bool) error {
	c.writeKey(key)
	if v {
		c.writeByte(True)
	} else {
		c.writeByte(False)
	}
	return c.err
}

// AddNull adds a null value.
func (c *Codec) AddNull(key string) error {
	c.writeKey(key)
	c.writeByte(Null)
	return c.err
}

// AddFloat32 adds a float32 as its IEEE 754 bits after the 0xfa marker.
func (c *Codec) AddFloat32(key string, v float32) error {
	c.writeKey(key)
	c.writeUintWidth(MajorSimple, uint64(math.Float32bits(v)), 4)
	return c.err
}

// AddFloat64 adds a float64 as its IEEE 754 bits after the 0xfb marker.
func (c *Codec) AddFloat64(key string, v float64) error {
	c.writeKey(key)
	c.writeUintWidth(MajorSimple, math.Float64bits(v), 8)
	return c.err
}

// AddString adds a text string. With null termination on, a NUL byte is
// stored after the contents and counted in the encoded length so readers
// can use the bytes in place as a C string.
func (c *Codec) AddString(key, v string) error {
	c.writeKey(key)
	pad := 0
	if c.nullTerminate {
		pad = 1
	}
	c.writeString(MajorText, v, pad)
	return c.err
}

// AddBytes adds an untagged byte string.
func (c *Codec) AddBytes(key string, v []byte) error {
	c.writeKey(key)
	c.writeBytes(MajorBytes, v)
	return c.err
}

// AddTime adds t as tag 1001 followed by its Unix time in nanoseconds.
func (c *Codec) AddTime(key string, t time.Time) error {
	c.writeKey(key)
	c.writeTag(TagTime)
	return AddInteger(c, "", t.UnixNano())
}

// AddDuration adds d as tag 1002 followed by its length in nanoseconds.
func (c *Codec) AddDuration(key string, d time.Duration) error {
	c.writeKey(key)
	c.writeTag(TagDuration)
	return AddInteger(c, "", int64(d))
}

// Add adds any Encodable under key as a nested map.
func (c *Codec) Add(key string, e Encodable) error {
	h, _ := c.StartMapField(key, 0)
	if err := e.EncodeMicroCBOR(c); err != nil && c.err == nil {
		c.err = err
	}
	return c.EndMap(h)
}
