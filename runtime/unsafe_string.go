package cbor

import "unsafe"

// borrowString views b as a string without copying. The result is only
// valid until the codec's buffer is written again.
func borrowString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
