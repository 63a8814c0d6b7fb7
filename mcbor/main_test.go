package main

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	fxcbor "github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	cbor "github.com/synadia-labs/microcbor/runtime"
)

func runCLI(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("mcbor"), kong.Exit(func(int) { t.Fatalf("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = ctx.Run(newEnv(&cli.Globals, bytes.NewReader(stdin), &out, io.Discard))
	return out.String(), err
}

// fixture returns a 64-byte buffer holding a small map followed by unused
// zero bytes.
func fixture(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, 64)
	c := cbor.NewCodec(buf)
	c.SetNullTerminate(false)
	h, _ := c.StartMap(0)
	c.AddUint16("count", 7)
	c.AddString("name", "probe")
	o, _ := c.StartMapField("origin", 0)
	c.AddFloat64("lat", 1.5)
	c.AddBool("ok", true)
	c.EndMap(o)
	cbor.AddArray(c, "v", []int16{1, -1}, true)
	require.NoError(t, c.EndMap(h))
	return buf
}

func TestDiag(t *testing.T) {
	buf := fixture(t)
	want, _, err := cbor.DiagBytes(buf)
	require.NoError(t, err)

	out, err := runCLI(t, buf, "diag")
	require.NoError(t, err)
	require.Equal(t, want+"\n", out)

	out, err = runCLI(t, []byte(hex.EncodeToString(buf)+"\n"), "-x", "diag")
	require.NoError(t, err)
	require.Equal(t, want+"\n", out)

	ref, _, err := fxcbor.DiagnoseFirst(buf)
	require.NoError(t, err)
	out, err = runCLI(t, buf, "diag", "--reference")
	require.NoError(t, err)
	require.Equal(t, ref+"\n", out)

	// a sequence prints one line per item
	out, err = runCLI(t, []byte{0x01, 0x20, 0xf6}, "diag")
	require.NoError(t, err)
	require.Equal(t, "1\n-1\nnull\n", out)

	_, err = runCLI(t, []byte{0xbf}, "diag")
	require.Error(t, err)
	_, err = runCLI(t, nil, "diag")
	require.Error(t, err)
}

func TestDump(t *testing.T) {
	out, err := runCLI(t, fixture(t), "dump")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{
		"count\tuint\t7",
		"name\tstr\t\"probe\"",
		"origin.lat\tfloat64\t1.5",
		"origin.ok\tbool\ttrue",
		"v\ttypedarray\t77(h'0100ffff')",
	}, lines)

	_, err = runCLI(t, []byte{0x01}, "dump")
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.cbor")
	require.NoError(t, os.WriteFile(path, fixture(t), 0o644))

	out, err := runCLI(t, nil, "get", "origin.lat", path)
	require.NoError(t, err)
	require.Equal(t, "1.5\n", out)

	out, err = runCLI(t, nil, "get", "-f", "text", "name", path)
	require.NoError(t, err)
	require.Equal(t, "probe\n", out)

	out, err = runCLI(t, nil, "get", "-f", "hex", "count", path)
	require.NoError(t, err)
	require.Equal(t, "190007\n", out)

	_, err = runCLI(t, nil, "get", "-f", "text", "count", path)
	require.Error(t, err)
	_, err = runCLI(t, nil, "get", "origin.missing", path)
	require.Error(t, err)
	_, err = runCLI(t, nil, "get", "count.x", path)
	require.Error(t, err)
	_, err = runCLI(t, nil, "get", "count", filepath.Join(dir, "missing.cbor"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := runCLI(t, fixture(t), "validate", "--map")
	require.NoError(t, err)
	require.Equal(t, "valid\n", out)

	_, err = runCLI(t, []byte{0x01}, "validate", "--map")
	require.Error(t, err)
	out, err = runCLI(t, []byte{0x01}, "validate")
	require.NoError(t, err)
	require.Equal(t, "valid\n", out)

	_, err = runCLI(t, []byte{0xf9, 0x3c, 0x00}, "validate")
	require.Error(t, err)
}

const sampleJSONC = `{
	// sensor reading
	"name": "probe",
	"count": 42,
	"neg": -3,
	"big": 18446744073709551615,
	"ratio": 0.25,
	"ok": true,
	"none": null,
	"vec": [1, 2, 3],
	"mix": [1, 2.5],
	"origin": {"lat": 47.5, "lon": 8.5},
}`

func TestEncode(t *testing.T) {
	out, err := runCLI(t, []byte(sampleJSONC), "encode")
	require.NoError(t, err)
	b := []byte(out)
	require.NoError(t, cbor.ValidateMap(b))

	c := cbor.NewReadOnlyCodec(b)
	require.Equal(t, "probe", c.GetString("name", ""))
	require.Equal(t, 42, c.GetInt("count", 0))
	require.Equal(t, int8(-3), c.GetInt8("neg", 0))
	require.Equal(t, uint64(18446744073709551615), c.GetUint64("big", 0))
	require.Equal(t, 0.25, c.GetFloat64("ratio", 0))
	require.True(t, c.GetBool("ok", false))
	require.True(t, c.IsNull("none"))

	vec := make([]int64, 3)
	n, ok := cbor.CopyArray(c, "vec", vec)
	require.True(t, ok)
	require.Equal(t, 3, n)
	require.Equal(t, []int64{1, 2, 3}, vec)

	mix := make([]float64, 2)
	_, ok = cbor.CopyArray(c, "mix", mix)
	require.True(t, ok)
	require.Equal(t, []float64{1, 2.5}, mix)

	require.Equal(t, 8.5, c.GetMap("origin").GetFloat64("lon", 0))

	// member order is preserved
	var keys []string
	require.NoError(t, c.Range(func(key string, _ cbor.Field) bool {
		keys = append(keys, key)
		return true
	}))
	require.Equal(t, []string{"name", "count", "neg", "big", "ratio", "ok", "none", "vec", "mix", "origin"}, keys)

	size, err := runCLI(t, []byte(sampleJSONC), "size")
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(len(b))+"\n", size)
}

func TestEncodeOptions(t *testing.T) {
	out, err := runCLI(t, []byte(`{"s": "ab"}`), "encode", "--hex-output", "--no-nul")
	require.NoError(t, err)
	require.Equal(t, "b8016173626162\n", out)

	out, err = runCLI(t, []byte(`{"s": "ab"}`), "encode", "--hex-output", "--wide")
	require.NoError(t, err)
	require.Equal(t, "b90001617363616200\n", out)

	aligned, err := runCLI(t, []byte(`{"v": [1, 2]}`), "size")
	require.NoError(t, err)
	packed, err := runCLI(t, []byte(`{"v": [1, 2]}`), "size", "--no-align")
	require.NoError(t, err)
	require.NotEqual(t, aligned, packed)
}

func TestEncodeErrors(t *testing.T) {
	for name, in := range map[string]string{
		"array top level": `[1, 2]`,
		"scalar":          `1`,
		"empty key":       `{"": 1}`,
		"string array":    `{"a": ["x"]}`,
		"nested array":    `{"a": [[1]]}`,
		"too deep":        `{"a": {"b": {"c": {"d": {}}}}}`,
		"trailing":        `{} {}`,
		"broken":          `{"a": `,
		"wide count":      `{` + strings.Repeat(`"k": 1, `, 300) + `"z": 0}`,
	} {
		_, err := runCLI(t, []byte(in), "encode")
		require.Error(t, err, name)
	}

	_, err := runCLI(t, []byte(`{`+strings.Repeat(`"k": 1, `, 300)+`"z": 0}`), "encode", "--wide")
	require.NoError(t, err)
}

func TestEncodeErrorPath(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("mcbor"))
	require.NoError(t, err)
	ctx, err := parser.Parse([]string{"-v", "encode"})
	require.NoError(t, err)

	var stderr bytes.Buffer
	in := strings.NewReader(`{"a": {"b": {"c": {"d": {}}}}}`)
	err = ctx.Run(newEnv(&cli.Globals, in, io.Discard, &stderr))
	require.ErrorIs(t, err, cbor.ErrNestingOverflow)
	require.Contains(t, err.Error(), "at a/b/c/d")
	require.Contains(t, stderr.String(), "encode failed")
	require.Contains(t, stderr.String(), cbor.ErrNestingOverflow.Error())
	require.NotContains(t, stderr.String(), "a/b/c/d")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcbor.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  // hex everywhere\n  \"hex\": true,\n}\n"), 0o644))

	var cli CLI
	parser, err := kong.New(&cli, kong.Configuration(jsoncLoader, path))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"validate"})
	require.NoError(t, err)
	require.True(t, cli.Hex)
}
