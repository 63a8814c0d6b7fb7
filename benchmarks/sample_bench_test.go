package benchmarks

import (
	"encoding/json"
	"reflect"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// TestCodecsAgree checks that every encoder in the comparison round-trips
// the fixture, so the benchmarks measure equivalent work.
func TestCodecsAgree(t *testing.T) {
	in := newSample()

	enc, err := cbor.Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if bound := in.MicroCBORSize(); len(enc) > bound {
		t.Fatalf("encoded %d bytes, MicroCBORSize bound %d", len(enc), bound)
	}
	var got Sample
	if err := cbor.Unmarshal(enc, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("microcbor: got %+v", got)
	}

	// typed-array keys may carry alignment padding, so only the scalar
	// fields are cross-checked
	var fromFx struct {
		Device   string   `cbor:"dev"`
		Seq      uint64   `cbor:"seq"`
		Location Location `cbor:"loc"`
	}
	if err := fxcbor.Unmarshal(enc, &fromFx); err != nil {
		t.Fatalf("fxamacker Unmarshal of Codec output: %v", err)
	}
	if fromFx.Device != "probe-0042\x00" || fromFx.Seq != in.Seq || fromFx.Location != in.Location {
		t.Fatalf("fxamacker read %+v", fromFx)
	}

	got = Sample{}
	if err := readMsgp(appendMsgp(nil, &in), &got); err != nil {
		t.Fatalf("msgp: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("msgp: got %+v", got)
	}

	fx, err := fxcbor.Marshal(in)
	if err != nil {
		t.Fatalf("fxamacker Marshal: %v", err)
	}
	got = Sample{}
	if err := fxcbor.Unmarshal(fx, &got); err != nil || !reflect.DeepEqual(got, in) {
		t.Fatalf("fxamacker: %v %+v", err, got)
	}
	t.Logf("sizes: microcbor %d, msgp %d, fxamacker %d", len(enc), len(appendMsgp(nil, &in)), len(fx))
}

func BenchmarkCodec_Struct_Encode(b *testing.B) {
	s := newSample()
	buf := make([]byte, s.MicroCBORSize())
	var c cbor.Codec
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Reset(buf)
		h, _ := c.StartMap(0)
		s.EncodeMicroCBOR(&c)
		if err := c.EndMap(h); err != nil {
			b.Fatalf("encode: %v", err)
		}
	}
}

func BenchmarkCodec_Struct_Decode(b *testing.B) {
	s := newSample()
	enc, err := cbor.Marshal(&s)
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	var c cbor.Codec
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out Sample
		c.ResetReadOnly(enc)
		if err := out.DecodeMicroCBOR(&c); err != nil {
			b.Fatalf("decode: %v", err)
		}
	}
}

// BenchmarkCodec_Lookup reads fields without decoding the whole map, the access pattern the
// Codec is built for.
func BenchmarkCodec_Lookup(b *testing.B) {
	s := newSample()
	enc, err := cbor.Marshal(&s)
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	c := cbor.NewReadOnlyCodec(enc)
	readings := make([]float32, len(s.Readings))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if c.GetFloat32("temp", 0) != 21.5 {
			b.Fatalf("temp")
		}
		if _, ok := cbor.CopyArray(c, "r", readings); !ok {
			b.Fatalf("readings")
		}
	}
}

func BenchmarkMsgp_Struct_Encode(b *testing.B) {
	s := newSample()
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = appendMsgp(out[:0], &s)
	}
	_ = out
}

func BenchmarkMsgp_Struct_Decode(b *testing.B) {
	s := newSample()
	enc := appendMsgp(nil, &s)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out Sample
		if err := readMsgp(enc, &out); err != nil {
			b.Fatalf("decode: %v", err)
		}
	}
}

func BenchmarkFXCBOR_Struct_Encode(b *testing.B) {
	s := newSample()
	encMode, err := fxcbor.CanonicalEncOptions().EncMode()
	if err != nil {
		b.Fatalf("fxcbor EncMode: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := encMode.Marshal(s); err != nil {
			b.Fatalf("fxcbor Marshal: %v", err)
		}
	}
}

func BenchmarkFXCBOR_Struct_Decode(b *testing.B) {
	s := newSample()
	enc, err := fxcbor.Marshal(s)
	if err != nil {
		b.Fatalf("fxcbor Marshal: %v", err)
	}
	decMode, err := fxcbor.DecOptions{}.DecMode()
	if err != nil {
		b.Fatalf("fxcbor DecMode: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out Sample
		if err := decMode.Unmarshal(enc, &out); err != nil {
			b.Fatalf("fxcbor Unmarshal: %v", err)
		}
	}
}

func BenchmarkJSONv1_Struct_Encode(b *testing.B) {
	s := newSample()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(s); err != nil {
			b.Fatalf("json.Marshal: %v", err)
		}
	}
}

func BenchmarkJSONv1_Struct_Decode(b *testing.B) {
	s := newSample()
	enc, err := json.Marshal(s)
	if err != nil {
		b.Fatalf("json.Marshal: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out Sample
		if err := json.Unmarshal(enc, &out); err != nil {
			b.Fatalf("json.Unmarshal: %v", err)
		}
	}
}
