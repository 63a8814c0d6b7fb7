// Command mcbor inspects and produces microcbor buffers: maps of named
// fields with fixed-width integers, NUL-terminated strings and typed
// arrays whose payloads may be padded for alignment.
package main

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/tidwall/jsonc"
)

// Globals are the flags shared by every subcommand. Defaults can be set
// in ./.mcbor.json or ~/.mcbor.json, e.g. {"hex": true}.
type Globals struct {
	Hex     bool `short:"x" help:"Treat CBOR input as hex; whitespace is ignored"`
	Verbose bool `short:"v" help:"Enable debug logging"`
}

// CLI defines the mcbor command-line interface.
type CLI struct {
	Globals

	Diag     DiagCmd     `cmd:"" help:"Print CBOR items in diagnostic notation"`
	Dump     DumpCmd     `cmd:"" help:"List the fields of a map, one path per line"`
	Get      GetCmd      `cmd:"" help:"Print the value stored under a dotted path"`
	Validate ValidateCmd `cmd:"" help:"Check that input stays within the supported CBOR subset"`
	Encode   EncodeCmd   `cmd:"" help:"Encode a JSON object as a microcbor map"`
	Size     SizeCmd     `cmd:"" help:"Print the buffer size needed to encode a JSON object"`
}

// env carries the streams and logger a command runs against.
type env struct {
	hex    bool
	stdin  io.Reader
	stdout io.Writer
	log    zerolog.Logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mcbor"),
		kong.Description("Inspect and produce fixed-buffer microcbor data."),
		kong.UsageOnError(),
		kong.Configuration(jsoncLoader, ".mcbor.json", "~/.mcbor.json"),
	)
	e := newEnv(&cli.Globals, os.Stdin, os.Stdout, os.Stderr)
	ctx.FatalIfErrorf(ctx.Run(e))
}

func newEnv(g *Globals, stdin io.Reader, stdout, stderr io.Writer) *env {
	level := zerolog.InfoLevel
	if g.Verbose {
		level = zerolog.DebugLevel
	}
	return &env{
		hex:    g.Hex,
		stdin:  stdin,
		stdout: stdout,
		log:    zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger(),
	}
}

// jsoncLoader reads kong configuration files that may carry comments and
// trailing commas.
func jsoncLoader(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return kong.JSON(bytes.NewReader(jsonc.ToJSON(data)))
}
