package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tidwall/jsonc"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

// EncodeFlags are shared by the encode and size commands.
type EncodeFlags struct {
	Align bool   `default:"true" negatable:"" help:"Pad array keys so payloads are aligned to their element size"`
	NoNul bool   `name:"no-nul" help:"Do not NUL-terminate strings"`
	Wide  bool   `help:"Reserve 16-bit map headers for objects with more than 255 members"`
	File  string `arg:"" optional:"" help:"JSON or JSONC input file (default stdin)"`
}

// EncodeCmd converts a JSON object into a microcbor map. Integers use
// their minimal width, other numbers become float64, and arrays of numbers
// become int64 or float64 typed arrays.
type EncodeCmd struct {
	EncodeFlags `embed:""`
	HexOutput bool `name:"hex-output" help:"Write hex instead of raw bytes"`
}

// SizeCmd prints the number of bytes EncodeCmd would produce.
type SizeCmd struct {
	EncodeFlags `embed:""`
}

func (ec *EncodeCmd) Run(e *env) error {
	data, err := e.readRaw(ec.File)
	if err != nil {
		return err
	}
	out, err := ec.encode(data)
	if err != nil {
		return e.encodeFailed(err)
	}
	e.log.Debug().Int("bytes", len(out)).Msg("encoded")
	if ec.HexOutput {
		_, err = fmt.Fprintln(e.stdout, hex.EncodeToString(out))
		return err
	}
	_, err = e.stdout.Write(out)
	return err
}

func (s *SizeCmd) Run(e *env) error {
	data, err := e.readRaw(s.File)
	if err != nil {
		return err
	}
	n, err := s.measure(data)
	if err != nil {
		return e.encodeFailed(err)
	}
	_, err = fmt.Fprintln(e.stdout, n)
	return err
}

// encodeFailed logs the codec error behind a member path before
// returning err unchanged.
func (e *env) encodeFailed(err error) error {
	e.log.Debug().AnErr("cause", cbor.Cause(err)).Msg("encode failed")
	return err
}

// measure encodes data into an empty Codec and returns the bytes needed.
func (o *EncodeFlags) measure(data []byte) (int, error) {
	c := cbor.NewCodec(nil)
	c.SetNullTerminate(!o.NoNul)
	if err := o.encodeJSON(c, data); err != nil && !errors.Is(err, cbor.ErrCapacityExceeded) {
		return 0, err
	}
	return c.BytesNeeded(), nil
}

// encode measures data, then encodes it into a buffer of exactly that size.
func (o *EncodeFlags) encode(data []byte) ([]byte, error) {
	n, err := o.measure(data)
	if err != nil {
		return nil, err
	}
	c := cbor.NewCodec(make([]byte, n))
	c.SetNullTerminate(!o.NoNul)
	if err := o.encodeJSON(c, data); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

func (o *EncodeFlags) encodeJSON(c *cbor.Codec, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	je := jsonEncoder{dec: dec, c: c, align: o.Align}
	if o.Wide {
		je.hint = math.MaxUint16
	}

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	if tok != json.Delim('{') {
		return errors.New("top-level JSON value must be an object")
	}
	h, err := c.StartMap(je.hint)
	if err != nil && !errors.Is(err, cbor.ErrCapacityExceeded) {
		return err
	}
	if err := je.members(); err != nil {
		return err
	}
	if err := c.EndMap(h); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after the top-level JSON object")
	}
	return c.Err()
}

// jsonEncoder streams JSON tokens into a Codec, keeping member order.
type jsonEncoder struct {
	dec   *json.Decoder
	c     *cbor.Codec
	hint  uint32
	align bool
}

// members encodes object members up to and including the closing brace.
func (j *jsonEncoder) members() error {
	for j.dec.More() {
		tok, err := j.dec.Token()
		if err != nil {
			return fmt.Errorf("parse JSON: %w", err)
		}
		key, _ := tok.(string)
		if key == "" {
			return errors.New("empty object keys cannot be encoded")
		}
		if err := j.value(key); err != nil {
			return cbor.WrapError(err, key)
		}
	}
	_, err := j.dec.Token()
	return err
}

func (j *jsonEncoder) value(key string) error {
	tok, err := j.dec.Token()
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return j.array(key)
		}
		h, err := j.c.StartMapField(key, j.hint)
		if err != nil && !errors.Is(err, cbor.ErrCapacityExceeded) {
			return err
		}
		if err := j.members(); err != nil {
			return err
		}
		return ignoreCapacity(j.c.EndMap(h))
	case string:
		return ignoreCapacity(j.c.AddString(key, v))
	case json.Number:
		return ignoreCapacity(j.number(key, v))
	case bool:
		return ignoreCapacity(j.c.AddBool(key, v))
	case nil:
		return ignoreCapacity(j.c.AddNull(key))
	}
	return fmt.Errorf("unexpected JSON token %v", tok)
}

func (j *jsonEncoder) number(key string, n json.Number) error {
	if i, err := n.Int64(); err == nil {
		return j.c.AddIntMinimal(key, i)
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return j.c.AddUintMinimal(key, u)
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	return j.c.AddFloat64(key, f)
}

// array encodes a JSON array of numbers as an int64 typed array, or a
// float64 one when any element is not an integer.
func (j *jsonEncoder) array(key string) error {
	var nums []json.Number
	for j.dec.More() {
		tok, err := j.dec.Token()
		if err != nil {
			return fmt.Errorf("parse JSON: %w", err)
		}
		n, ok := tok.(json.Number)
		if !ok {
			return fmt.Errorf("arrays may only hold numbers, found %v", tok)
		}
		nums = append(nums, n)
	}
	if _, err := j.dec.Token(); err != nil {
		return err
	}

	ints := make([]int64, len(nums))
	for i, n := range nums {
		v, err := n.Int64()
		if err != nil {
			return ignoreCapacity(j.floats(key, nums))
		}
		ints[i] = v
	}
	return ignoreCapacity(cbor.AddArray(j.c, key, ints, j.align))
}

func (j *jsonEncoder) floats(key string, nums []json.Number) error {
	fs := make([]float64, len(nums))
	for i, n := range nums {
		f, err := n.Float64()
		if err != nil {
			return err
		}
		fs[i] = f
	}
	return cbor.AddArray(j.c, key, fs, j.align)
}

// ignoreCapacity drops ErrCapacityExceeded so a dry run can finish
// counting; the Codec keeps the error for the final check.
func ignoreCapacity(err error) error {
	if errors.Is(err, cbor.ErrCapacityExceeded) {
		return nil
	}
	return err
}
