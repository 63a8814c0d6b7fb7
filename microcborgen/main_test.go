package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const pointSrc = "package geo\n\ntype Point struct {\n\tX int32 `cbor:\"x\"`\n\tY int32 `cbor:\"y\"`\n}\n"

func TestDefaultOutputPath(t *testing.T) {
	require.Equal(t, filepath.Join("a", "b", "point_microcbor.go"), defaultOutputPath(filepath.Join("a", "b", "point.go")))
	require.Equal(t, "point_microcbor.go", defaultOutputPath("point.go"))
}

func TestRunForDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "point.go"), []byte(pointSrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "other.go"), []byte(pointSrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "point_test.go"), []byte(pointSrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	log := zerolog.Nop()
	require.NoError(t, run(&CLI{Input: dir}, &log))

	for _, p := range []string{
		filepath.Join(dir, "point_microcbor.go"),
		filepath.Join(sub, "other_microcbor.go"),
	} {
		b, err := os.ReadFile(p)
		require.NoError(t, err, p)
		require.Contains(t, string(b), "func (x *Point) EncodeMicroCBOR(c *cbor.Codec) error {")
	}
	_, err := os.Stat(filepath.Join(dir, "point_test_microcbor.go"))
	require.True(t, os.IsNotExist(err))

	// a second run must not pick up its own output
	require.NoError(t, run(&CLI{Input: dir}, &log))
	_, err = os.Stat(filepath.Join(dir, "point_microcbor_microcbor.go"))
	require.True(t, os.IsNotExist(err))
}

func TestRunFileMode(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "point.go")
	require.NoError(t, os.WriteFile(in, []byte(pointSrc), 0o644))

	log := zerolog.Nop()
	out := filepath.Join(dir, "custom.go")
	require.NoError(t, run(&CLI{Input: in, Output: out, Structs: []string{"Point"}}, &log))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(b), `c.AddInt32("x", x.X)`)

	require.Error(t, run(&CLI{Input: dir, Output: out}, &log))
	require.Error(t, run(&CLI{Input: filepath.Join(dir, "missing.go")}, &log))
}
