package cbor

import "unicode/utf8"

// Validate checks that b holds exactly one item of the subset this package
// writes, followed by nothing but zero bytes (the unused tail of a fixed
// buffer). It rejects reserved and indefinite lengths, half-precision and
// undefined simple values, tags above 65535, typed arrays whose payload is
// not a whole number of elements and text that is not UTF-8. Trailing NUL
// bytes inside text are accepted.
func Validate(b []byte) error {
	next, err := validate(b, 0, 0)
	if err != nil {
		if err == errBadPrefix {
			err = InvalidPrefixError{Prefix: b[next], Offset: next}
		}
		return err
	}
	for _, c := range b[next:] {
		if c != 0 {
			return ErrTrailingBytes
		}
	}
	return nil
}

// ValidateMap is Validate for a buffer whose top-level item must be a map.
func ValidateMap(b []byte) error {
	if err := Validate(b); err != nil {
		return err
	}
	if f := readField(b, 0); f.Major != MajorMap {
		return TypeError{Method: MapType, Encoded: f.Type()}
	}
	return nil
}

func validate(b []byte, off, depth int) (int, error) {
	if depth > recursionLimit {
		return off, ErrMaxDepthExceeded
	}
	f := readHeader(b, off)
	if !f.OK() {
		return off, headerErr(b, off)
	}

	switch f.Major {
	case MajorUint, MajorNegInt:
		return f.Payload(), nil

	case MajorBytes:
		p, ok := f.contents(b)
		if !ok {
			return off, ErrShortBytes
		}
		return f.Payload() + len(p), nil

	case MajorText:
		p, ok := f.contents(b)
		if !ok {
			return off, ErrShortBytes
		}
		if !utf8.Valid(trimPadding(p)) {
			return off, ErrInvalidUTF8
		}
		return f.Payload() + len(p), nil

	case MajorArray, MajorMap:
		n, ok := f.length(b)
		if !ok {
			return off, errBadPrefix
		}
		p := f.Payload()
		var err error
		for range n {
			if f.Major == MajorMap {
				if k := readHeader(b, p); k.OK() && k.Major != MajorText {
					return p, WrapError(TypeError{Method: StrType, Encoded: k.Type()}, p)
				}
				if p, err = validate(b, p, depth+1); err != nil {
					return p, err
				}
			}
			if p, err = validate(b, p, depth+1); err != nil {
				return p, err
			}
		}
		return p, nil

	case MajorTag:
		if f.HeaderLen > 3 {
			return off, ErrUnsupportedTag
		}
		tag := Tag(f.value(b))
		if size := elemSize(tag); size > 0 {
			inner := readHeader(b, f.Payload())
			if inner.Major != MajorBytes {
				return off, WrapError(TypeError{Method: TypedArrayType, Encoded: inner.Type()}, tag)
			}
			if n, ok := inner.length(b); ok && n%uint32(size) != 0 {
				return off, ArrayError{Tag: tag, Length: n}
			}
		}
		return validate(b, f.Payload(), depth+1)

	default:
		switch f.Minor {
		case simpleFalse, simpleTrue, simpleNull, simpleFloat32, simpleFloat64:
			return f.Payload(), nil
		}
		return off, errBadPrefix
	}
}
