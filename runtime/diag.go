package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// DiagBytes renders the next CBOR item in RFC 8949 diagnostic notation and
// returns the remaining bytes. Only the subset this package reads is
// rendered; anything else is reported as an error.
func DiagBytes(b []byte) (string, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	next, err := diagOne(bb, b, 0, 0)
	if err != nil {
		if err == errBadPrefix {
			err = InvalidPrefixError{Prefix: b[next], Offset: next}
		}
		return "", b, err
	}
	return string(bb.Bytes()), b[next:], nil
}

func diagOne(buf *ByteBuffer, b []byte, off, depth int) (int, error) {
	if depth > recursionLimit {
		return off, ErrMaxDepthExceeded
	}
	f := readHeader(b, off)
	if !f.OK() {
		return off, headerErr(b, off)
	}

	switch f.Major {
	case MajorUint:
		buf.WriteString(strconv.FormatUint(f.value(b), 10))
		return f.Payload(), nil
	case MajorNegInt:
		u := f.value(b)
		if u > math.MaxInt64 {
			buf.WriteString("-" + strconv.FormatUint(u, 10) + "-1")
		} else {
			buf.WriteString(strconv.FormatInt(-1-int64(u), 10))
		}
		return f.Payload(), nil
	case MajorBytes:
		p, ok := f.contents(b)
		if !ok {
			return off, ErrShortBytes
		}
		buf.WriteString("h'")
		hex.Encode(buf.Extend(hex.EncodedLen(len(p))), p)
		buf.WriteByte('\'')
		return f.Payload() + len(p), nil
	case MajorText:
		p, ok := f.contents(b)
		if !ok {
			return off, ErrShortBytes
		}
		buf.WriteString(strconv.Quote(string(p)))
		return f.Payload() + len(p), nil
	case MajorArray, MajorMap:
		n, ok := f.length(b)
		if !ok {
			return off, errBadPrefix
		}
		open, closing := byte('['), byte(']')
		if f.Major == MajorMap {
			open, closing = '{', '}'
		}
		buf.WriteByte(open)
		p := f.Payload()
		var err error
		for i := range n {
			if i > 0 {
				buf.WriteString(", ")
			}
			if p, err = diagOne(buf, b, p, depth+1); err != nil {
				return p, err
			}
			if f.Major == MajorMap {
				buf.WriteString(": ")
				if p, err = diagOne(buf, b, p, depth+1); err != nil {
					return p, err
				}
			}
		}
		buf.WriteByte(closing)
		return p, nil
	case MajorTag:
		if f.HeaderLen > 3 {
			return off, ErrUnsupportedTag
		}
		buf.WriteString(strconv.FormatUint(f.value(b), 10))
		buf.WriteByte('(')
		p, err := diagOne(buf, b, f.Payload(), depth+1)
		if err != nil {
			return p, err
		}
		buf.WriteByte(')')
		return p, nil
	default:
		switch f.Minor {
		case simpleFalse:
			buf.WriteString("false")
		case simpleTrue:
			buf.WriteString("true")
		case simpleNull:
			buf.WriteString("null")
		case simpleFloat32:
			buf.WriteString(formatFloatDiag(float64(math.Float32frombits(uint32(f.value(b)))), 32))
		case simpleFloat64:
			buf.WriteString(formatFloatDiag(math.Float64frombits(f.value(b)), 64))
		default:
			return off, errBadPrefix
		}
		return f.Payload(), nil
	}
}

// formatFloatDiag returns a diagnostic string for a float matching RFC
// examples.
func formatFloatDiag(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, +1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	if af := math.Abs(f); af == 0 || af < 1e15 {
		s := strconv.FormatFloat(f, 'f', -1, bitSize)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'e', -1, bitSize)
}
