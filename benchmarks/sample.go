// Package benchmarks compares the fixed-buffer Codec against
// tinylib/msgp, fxamacker/cbor and encoding/json on a small telemetry
// record.
package benchmarks

//go:generate go run ../microcborgen -i sample.go

// Sample is one telemetry record from a sensor.
type Sample struct {
	Device   string    `cbor:"dev" json:"dev"`
	Seq      uint64    `cbor:"seq" json:"seq"`
	Battery  uint8     `cbor:"bat" json:"bat"`
	Temp     float32   `cbor:"temp" json:"temp"`
	Online   bool      `cbor:"on" json:"on"`
	Readings []float32 `cbor:"r" json:"r"`
	Location Location  `cbor:"loc" json:"loc"`
}

// Location is where a Sample was taken.
type Location struct {
	Lat float64 `cbor:"lat" json:"lat"`
	Lon float64 `cbor:"lon" json:"lon"`
}

func newSample() Sample {
	return Sample{
		Device:   "probe-0042",
		Seq:      1 << 33,
		Battery:  87,
		Temp:     21.5,
		Online:   true,
		Readings: []float32{0.25, 0.5, 1.75, -3, 12.125, 8, 0, 99.5},
		Location: Location{Lat: 47.3769, Lon: 8.5417},
	}
}
