package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// readRaw returns the contents of path, or of stdin when path is empty
// or "-".
func (e *env) readRaw(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// readCBOR reads CBOR input, decoding hex when --hex is set.
func (e *env) readCBOR(path string) ([]byte, error) {
	data, err := e.readRaw(path)
	if err != nil {
		return nil, err
	}
	if e.hex {
		return decodeHexInput(data)
	}
	if len(data) == 0 {
		return nil, errors.New("empty input: expected CBOR data")
	}
	if cbor.IsLikelyJSON(data) {
		e.log.Warn().Msg("input looks like JSON text; use 'mcbor encode' to convert it")
	}
	e.log.Debug().Int("bytes", len(data)).Str("type", cbor.NextType(data).String()).Msg("read input")
	return data, nil
}

// decodeHexInput strips whitespace from data and decodes it as hex.
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, errors.New("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	n, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:n], nil
}

// zeroTail reports whether b is non-empty and holds only zero bytes, the
// unused end of a fixed-size buffer.
func zeroTail(b []byte) bool {
	return len(b) > 0 && len(bytes.Trim(b, "\x00")) == 0
}
