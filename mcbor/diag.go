package main

import (
	"fmt"

	fxcbor "github.com/fxamacker/cbor/v2"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// DiagCmd prints each item of a CBOR sequence in diagnostic notation,
// stopping at a tail of zero bytes.
type DiagCmd struct {
	Reference bool   `help:"Render with the general-purpose fxamacker/cbor diagnoser instead of the subset one"`
	File      string `arg:"" optional:"" help:"Input file (default stdin)"`
}

func (d *DiagCmd) Run(e *env) error {
	data, err := e.readCBOR(d.File)
	if err != nil {
		return err
	}

	diagnose := cbor.DiagBytes
	if d.Reference {
		diagnose = fxcbor.DiagnoseFirst
	}

	rest := data
	for len(rest) > 0 && !zeroTail(rest) {
		notation, next, err := diagnose(rest)
		if err != nil {
			return fmt.Errorf("diagnose CBOR at byte %d: %w", len(data)-len(rest), err)
		}
		if _, err := fmt.Fprintln(e.stdout, notation); err != nil {
			return err
		}
		rest = next
	}
	if len(rest) > 0 {
		e.log.Debug().Int("bytes", len(rest)).Msg("skipped zero tail")
	}
	return nil
}
