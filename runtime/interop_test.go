package cbor_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// TestInteropDecode checks that a general-purpose decoder reads what the
// Codec writes, including rewritten map headers and padded keys.
func TestInteropDecode(t *testing.T) {
	buf := make([]byte, 512)
	c := cbor.NewCodec(buf)
	if err := encodeSample(c); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var m map[string]any
	if err := fxcbor.Unmarshal(c.Bytes(), &m); err != nil {
		t.Fatalf("fxamacker Unmarshal: %v", err)
	}
	if len(m) != 19 {
		t.Fatalf("decoded %d pairs", len(m))
	}
	if got := m["i32"]; got != uint64(12345678) {
		t.Fatalf("i32 = %#v", got)
	}
	if got := m["i64"]; got != int64(math.MinInt64) {
		t.Fatalf("i64 = %#v", got)
	}
	if got := m["str"]; got != "hello\x00" {
		t.Fatalf("str = %#v", got)
	}
	if got := m["yes"]; got != true {
		t.Fatalf("yes = %#v", got)
	}
	if got := m["f64"]; got != math.Pi {
		t.Fatalf("f64 = %#v", got)
	}

	var vec fxcbor.Tag
	for k, v := range m {
		if strings.TrimRight(k, "\x00") == "vec" {
			vec, _ = v.(fxcbor.Tag)
		}
	}
	if vec.Number != uint64(cbor.TagInt32Array) {
		t.Fatalf("vec tag = %d", vec.Number)
	}
	payload, ok := vec.Content.([]byte)
	if !ok || len(payload) != 16 || payload[0] != 1 || payload[4] != 0xfe {
		t.Fatalf("vec payload = %#v", vec.Content)
	}
}

// TestInteropRead checks that the navigator reads maps written by a
// general-purpose encoder.
func TestInteropRead(t *testing.T) {
	in := map[string]any{
		"name":  "sensor-7",
		"count": 42,
		"temp":  -12,
		"ok":    true,
		"ratio": 0.25,
		"raw":   []byte{9, 8, 7},
		"sub":   map[string]any{"x": 1},
		"list":  []any{1, "two", 3.0},
		"after": uint64(1) << 40,
	}
	b, err := fxcbor.Marshal(in)
	if err != nil {
		t.Fatalf("fxamacker Marshal: %v", err)
	}
	if err := cbor.ValidateMap(b); err != nil {
		t.Fatalf("ValidateMap: %v", err)
	}

	c := cbor.NewReadOnlyCodec(b)
	if got := c.GetString("name", ""); got != "sensor-7" {
		t.Fatalf("name = %q", got)
	}
	if got := c.GetInt32("count", 0); got != 42 {
		t.Fatalf("count = %d", got)
	}
	if got := c.GetInt8("temp", 0); got != -12 {
		t.Fatalf("temp = %d", got)
	}
	if !c.GetBool("ok", false) {
		t.Fatalf("ok = false")
	}
	if got := c.GetFloat64("ratio", 0); got != 0.25 {
		t.Fatalf("ratio = %v", got)
	}
	if got := c.GetBytes("raw", nil); string(got) != "\x09\x08\x07" {
		t.Fatalf("raw = %v", got)
	}
	if got := c.GetMap("sub").GetInt("x", 0); got != 1 {
		t.Fatalf("sub.x = %d", got)
	}
	if got := c.Len("list"); got != 3 {
		t.Fatalf("Len(list) = %d", got)
	}
	if got := c.GetUint64("after", 0); got != 1<<40 {
		t.Fatalf("after = %d", got)
	}
}

// TestDiagMatchesReference compares DiagBytes with the reference
// diagnostic notation for the types both render identically.
func TestDiagMatchesReference(t *testing.T) {
	buf := make([]byte, 128)
	c := cbor.NewCodec(buf)
	c.SetNullTerminate(false)
	h, _ := c.StartMap(0)
	c.AddUint16("n", 7)
	c.AddIntMinimal("neg", -300)
	c.AddString("s", "text")
	c.AddBytes("b", []byte{0xde, 0xad})
	c.AddNull("z")
	in, _ := c.StartMapField("m", 0)
	c.AddBool("t", true)
	c.EndMap(in)
	cbor.AddArray(c, "a", []uint8{1, 2}, false)
	if err := c.EndMap(h); err != nil {
		t.Fatalf("encode: %v", err)
	}

	want, err := fxcbor.Diagnose(c.Bytes())
	if err != nil {
		t.Fatalf("fxamacker Diagnose: %v", err)
	}
	got, rest, err := cbor.DiagBytes(c.Bytes())
	if err != nil {
		t.Fatalf("DiagBytes: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("DiagBytes left %d bytes", len(rest))
	}
	if got != want {
		t.Fatalf("DiagBytes:\n got %s\nwant %s", got, want)
	}
}

func TestDiagFloats(t *testing.T) {
	c := cbor.NewCodec(make([]byte, 64))
	h, _ := c.StartMap(0)
	c.AddFloat32("a", 1.5)
	c.AddFloat64("b", 2)
	c.AddFloat64("c", math.Inf(-1))
	c.EndMap(h)
	got, _, err := cbor.DiagBytes(c.Bytes())
	if err != nil {
		t.Fatalf("DiagBytes: %v", err)
	}
	if want := `{"a": 1.5, "b": 2.0, "c": -Infinity}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestValidate(t *testing.T) {
	buf := make([]byte, 512)
	c := cbor.NewCodec(buf)
	encodeSample(c)
	// the unused zero tail of the buffer is accepted
	if err := cbor.Validate(buf); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := cbor.ValidateMap(c.Bytes()); err != nil {
		t.Fatalf("ValidateMap: %v", err)
	}

	var pe cbor.InvalidPrefixError
	var ae cbor.ArrayError
	var te cbor.TypeError
	cases := []struct {
		name  string
		hex   string
		check func(error) bool
	}{
		{"reserved", "1c", func(err error) bool { return errors.As(err, &pe) }},
		{"indefinite", "bf616101ff", func(err error) bool { return errors.As(err, &pe) && pe.Offset == 0 }},
		{"half float", "f93c00", func(err error) bool { return errors.As(err, &pe) }},
		{"undefined", "f7", func(err error) bool { return errors.As(err, &pe) }},
		{"short", "a16161", func(err error) bool { return errors.Is(err, cbor.ErrShortBytes) }},
		{"trailing", "a0a0", func(err error) bool { return errors.Is(err, cbor.ErrTrailingBytes) }},
		{"bad utf8", "62c328", func(err error) bool { return errors.Is(err, cbor.ErrInvalidUTF8) }},
		{"ragged array", "d84e43010203", func(err error) bool { return errors.As(err, &ae) && ae.Length == 3 }},
		{"array not bytes", "d84e01", func(err error) bool { return errors.As(err, &te) }},
		{"int key", "a10101", func(err error) bool { return errors.As(err, &te) }},
		{"big tag", "da0001000000", func(err error) bool { return errors.Is(err, cbor.ErrUnsupportedTag) }},
	}
	for _, tc := range cases {
		err := cbor.Validate(mustHex(t, tc.hex))
		if err == nil || !tc.check(err) {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
	if err := cbor.ValidateMap(mustHex(t, "01")); !errors.As(err, &te) {
		t.Fatalf("ValidateMap on scalar: %v", err)
	}
	if err := cbor.Validate(mustHex(t, "63616200")); err != nil {
		t.Fatalf("NUL-terminated text rejected: %v", err)
	}
}
