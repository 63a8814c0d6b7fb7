package cbor

// Codec encodes into and decodes from a fixed, caller-owned buffer.
//
// The zero value has no buffer: every getter returns its default and every
// append fails with ErrCapacityExceeded (BytesNeeded still counts).
//
// A Codec is not safe for concurrent use. Independent read-only Codecs may
// share one backing buffer.
type Codec struct {
	buf           []byte
	off           int // write cursor while encoding, map start while decoding
	needed        int // bytes required so far, may exceed len(buf)
	err           error
	readOnly      bool
	nullTerminate bool

	depth  int // number of open maps
	frames [MaxNesting]mapFrame
}

// NewCodec binds a Codec to buf for reading and writing. The capacity is
// len(buf). Strings are written with a trailing NUL byte unless
// SetNullTerminate(false) is called.
func NewCodec(buf []byte) *Codec {
	c := &Codec{}
	c.Reset(buf)
	return c
}

// NewReadOnlyCodec binds a Codec to buf for decoding only. Any append
// latches ErrReadOnly without touching buf.
func NewReadOnlyCodec(buf []byte) *Codec {
	c := &Codec{}
	c.ResetReadOnly(buf)
	return c
}

// Reset rebinds the Codec to buf in read/write mode and clears all state.
func (c *Codec) Reset(buf []byte) {
	c.buf = buf
	c.readOnly = false
	c.nullTerminate = true
	c.Restart()
}

// ResetReadOnly rebinds the Codec to buf in decode-only mode and clears all
// state.
func (c *Codec) ResetReadOnly(buf []byte) {
	c.buf = buf
	c.readOnly = true
	c.nullTerminate = false
	c.Restart()
}

// Restart rewinds the cursor, the needed-bytes counter, the sticky error and
// the map stack. The buffer binding and its contents are left as they are,
// so Restart after encoding makes the written map readable.
func (c *Codec) Restart() {
	c.off = 0
	c.needed = 0
	c.err = nil
	c.depth = 0
}

// SetNullTerminate controls whether AddString appends a NUL byte after the
// string contents.
func (c *Codec) SetNullTerminate(on bool) { c.nullTerminate = on }

// NullTerminate reports whether AddString appends a NUL byte.
func (c *Codec) NullTerminate() bool { return c.nullTerminate }

// ReadOnly reports whether the Codec is bound in decode-only mode.
func (c *Codec) ReadOnly() bool { return c.readOnly }

// Err returns the sticky encode error, or nil.
func (c *Codec) Err() error { return c.err }

// BytesWritten returns the number of bytes actually stored in the buffer.
func (c *Codec) BytesWritten() int { return c.off }

// BytesNeeded returns the number of bytes the appends so far require. It
// keeps counting after ErrCapacityExceeded, so it is the buffer size that
// would have been sufficient.
func (c *Codec) BytesNeeded() int { return c.needed }

// Bytes returns the written prefix of the buffer.
func (c *Codec) Bytes() []byte { return c.buf[:c.off] }

// Cap returns the size of the bound buffer.
func (c *Codec) Cap() int { return len(c.buf) }

// Depth returns the number of maps currently open for encoding.
func (c *Codec) Depth() int { return c.depth }
