package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// GetCmd prints the value under a dotted path such as "origin.lat".
type GetCmd struct {
	Format string `short:"f" enum:"diag,text,hex" default:"diag" help:"Output format: diag, text (strings only) or hex"`
	Path   string `arg:"" help:"Dotted path of the field"`
	File   string `arg:"" optional:"" help:"Input file (default stdin)"`
}

func (g *GetCmd) Run(e *env) error {
	data, err := e.readCBOR(g.File)
	if err != nil {
		return err
	}

	c := cbor.NewReadOnlyCodec(data)
	parts := strings.Split(g.Path, ".")
	var sub cbor.Codec
	for i, key := range parts[:len(parts)-1] {
		if !c.MapAt(key, &sub) {
			return fmt.Errorf("%s: no map found", strings.Join(parts[:i+1], "."))
		}
		c = &sub
	}

	last := parts[len(parts)-1]
	raw := c.Raw(last)
	if raw == nil {
		return fmt.Errorf("%s: not found", g.Path)
	}

	var out string
	switch g.Format {
	case "text":
		f, _ := c.Lookup(last)
		if f.Type() != cbor.StrType {
			return fmt.Errorf("%s: %w", g.Path, cbor.TypeError{Method: cbor.StrType, Encoded: f.Type()})
		}
		out = c.GetString(last, "")
	case "hex":
		out = hex.EncodeToString(raw)
	default:
		if out, _, err = cbor.DiagBytes(raw); err != nil {
			return fmt.Errorf("%s: %w", g.Path, err)
		}
	}
	_, err = fmt.Fprintln(e.stdout, out)
	return err
}
