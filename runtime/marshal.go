package cbor

import "io"

// encodeMap writes e as a top-level map. Errors are sticky, so a Codec
// that is out of room keeps measuring through EndMap.
func encodeMap(c *Codec, e Encodable) error {
	h, _ := c.StartMap(0)
	if err := e.EncodeMicroCBOR(c); err != nil && c.err == nil {
		c.err = err
	}
	return c.EndMap(h)
}

// Marshal encodes e as a map into a newly allocated buffer of exactly the
// right size.
func Marshal(e Encodable) ([]byte, error) {
	c := NewCodec(make([]byte, Size(e)))
	if err := encodeMap(c, e); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// MarshalTo encodes e as a map into buf and returns the written prefix.
// When buf is too small the error is ErrCapacityExceeded and n is the
// size that would have fit.
func MarshalTo(buf []byte, e Encodable) (out []byte, n int, err error) {
	c := NewCodec(buf)
	err = encodeMap(c, e)
	return c.Bytes(), c.BytesNeeded(), err
}

// Encode writes e as a map to w, using a pooled buffer sized by a dry run.
func Encode(w io.Writer, e Encodable) error {
	n := Size(e)
	bb := GetMinSize(n)
	defer PutByteBuffer(bb)
	c := NewCodec(bb.Extend(n))
	if err := encodeMap(c, e); err != nil {
		return err
	}
	_, err := w.Write(c.Bytes())
	return err
}

// Unmarshal checks that b is a single well-formed map and decodes it into
// d. Strings and arrays d keeps may borrow b.
func Unmarshal(b []byte, d Decodable) error {
	if err := ValidateMap(b); err != nil {
		return err
	}
	return d.DecodeMicroCBOR(NewReadOnlyCodec(b))
}

// Decode reads all of r and decodes it into d. The data is read into a
// buffer owned by d from then on, since decoded strings may borrow it.
func Decode(r io.Reader, d Decodable) error {
	var bb ByteBuffer
	if _, err := bb.ReadFrom(r); err != nil {
		return err
	}
	return Unmarshal(bb.Bytes(), d)
}
