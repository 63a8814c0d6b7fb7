package benchmarks

import (
	"fmt"

	msgp "github.com/tinylib/msgp/msgp"
)

// appendMsgp encodes s as a MessagePack map with the same keys the
// Codec uses, through the msgp runtime.
func appendMsgp(b []byte, s *Sample) []byte {
	b = msgp.AppendMapHeader(b, 7)
	b = msgp.AppendString(b, "dev")
	b = msgp.AppendString(b, s.Device)
	b = msgp.AppendString(b, "seq")
	b = msgp.AppendUint64(b, s.Seq)
	b = msgp.AppendString(b, "bat")
	b = msgp.AppendUint8(b, s.Battery)
	b = msgp.AppendString(b, "temp")
	b = msgp.AppendFloat32(b, s.Temp)
	b = msgp.AppendString(b, "on")
	b = msgp.AppendBool(b, s.Online)
	b = msgp.AppendString(b, "r")
	b = msgp.AppendArrayHeader(b, uint32(len(s.Readings)))
	for _, r := range s.Readings {
		b = msgp.AppendFloat32(b, r)
	}
	b = msgp.AppendString(b, "loc")
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, "lat")
	b = msgp.AppendFloat64(b, s.Location.Lat)
	b = msgp.AppendString(b, "lon")
	b = msgp.AppendFloat64(b, s.Location.Lon)
	return b
}

// readMsgp decodes a map written by appendMsgp into s.
func readMsgp(b []byte, s *Sample) error {
	n, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return err
	}
	for range n {
		var key []byte
		if key, b, err = msgp.ReadMapKeyZC(b); err != nil {
			return err
		}
		switch string(key) {
		case "dev":
			s.Device, b, err = msgp.ReadStringBytes(b)
		case "seq":
			s.Seq, b, err = msgp.ReadUint64Bytes(b)
		case "bat":
			s.Battery, b, err = msgp.ReadUint8Bytes(b)
		case "temp":
			s.Temp, b, err = msgp.ReadFloat32Bytes(b)
		case "on":
			s.Online, b, err = msgp.ReadBoolBytes(b)
		case "r":
			var sz uint32
			if sz, b, err = msgp.ReadArrayHeaderBytes(b); err != nil {
				return err
			}
			s.Readings = make([]float32, sz)
			for i := range s.Readings {
				if s.Readings[i], b, err = msgp.ReadFloat32Bytes(b); err != nil {
					return err
				}
			}
		case "loc":
			b, err = readMsgpLocation(b, &s.Location)
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func readMsgpLocation(b []byte, l *Location) ([]byte, error) {
	n, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	for range n {
		var key []byte
		if key, b, err = msgp.ReadMapKeyZC(b); err != nil {
			return b, err
		}
		switch string(key) {
		case "lat":
			l.Lat, b, err = msgp.ReadFloat64Bytes(b)
		case "lon":
			l.Lon, b, err = msgp.ReadFloat64Bytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			return b, err
		}
	}
	return b, nil
}
