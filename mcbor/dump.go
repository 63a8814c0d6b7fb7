package main

import (
	"fmt"
	"io"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// DumpCmd lists every field of the top-level map as path, type and value.
// Nested maps are descended into and their fields printed with dotted
// paths.
type DumpCmd struct {
	File string `arg:"" optional:"" help:"Input file (default stdin)"`
}

func (d *DumpCmd) Run(e *env) error {
	data, err := e.readCBOR(d.File)
	if err != nil {
		return err
	}
	return dumpMap(e.stdout, cbor.NewReadOnlyCodec(data), "")
}

func dumpMap(w io.Writer, c *cbor.Codec, prefix string) error {
	var werr error
	err := c.Range(func(key string, f cbor.Field) bool {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if f.Type() == cbor.MapType {
			var sub cbor.Codec
			if c.MapAt(key, &sub) {
				werr = dumpMap(w, &sub, path)
				return werr == nil
			}
		}
		value, _, err := cbor.DiagBytes(c.Raw(key))
		if err != nil {
			werr = fmt.Errorf("%s: %w", path, err)
			return false
		}
		_, werr = fmt.Fprintf(w, "%s\t%s\t%s\n", path, f.Type(), value)
		return werr == nil
	})
	if err != nil {
		if prefix == "" {
			return fmt.Errorf("dump: %w", err)
		}
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return werr
}
