package cbor

import "unicode/utf8"

// NextType returns the type of the next object in the slice, resolving
// through tags.
func NextType(b []byte) Type {
	return readField(b, 0).Type()
}

// IsLikelyJSON reports whether the given byte slice looks like JSON text
// rather than CBOR. It is a heuristic and not a formal discriminator:
//
//   - It requires the data to be valid UTF-8.
//   - It then checks the first non-whitespace byte against the JSON
//     value grammar (object/array/string/number/true/false/null).
//
// Buffers written by a Codec start with a map header (0xa0-0xba) and
// are never valid UTF-8.
func IsLikelyJSON(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	i := 0
	for i < len(b) {
		c := b[i]
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' {
			i++
			continue
		}
		break
	}
	if i >= len(b) {
		return false
	}
	switch ch := b[i]; {
	case ch == '{', ch == '[', ch == '"', ch == '-':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == 't', ch == 'f', ch == 'n':
		return true
	}
	return false
}
