package main

import (
	"fmt"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// ValidateCmd checks the input against the supported subset: definite
// lengths only, no half floats, 16-bit tags, text map keys and typed
// arrays whose length is a multiple of their element size.
type ValidateCmd struct {
	Map  bool   `help:"Require the top-level item to be a map"`
	File string `arg:"" optional:"" help:"Input file (default stdin)"`
}

func (v *ValidateCmd) Run(e *env) error {
	data, err := e.readCBOR(v.File)
	if err != nil {
		return err
	}
	check := cbor.Validate
	if v.Map {
		check = cbor.ValidateMap
	}
	if err := check(data); err != nil {
		return fmt.Errorf("invalid: %w", err)
	}
	_, err = fmt.Fprintln(e.stdout, "valid")
	return err
}
