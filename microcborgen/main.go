package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/synadia-labs/microcbor/microcborgen/core"
)

const generatedSuffix = "_microcbor.go"

// CLI defines the microcborgen command-line interface.
//
// In directory mode, each source file gets its own
// "*_microcbor.go" companion file (recursive) and the --output flag is rejected.
type CLI struct {
	Input   string   `short:"i" help:"Input Go file or directory (recursive)" default:"."`
	Output  string   `short:"o" help:"Output file (file input only; defaults to {input}_microcbor.go)"`
	Structs []string `short:"s" help:"Only generate for these struct types (may be repeated)"`
	Borrow  bool     `help:"Decoded string and []byte fields alias the input buffer"`
	Verbose bool     `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("microcborgen"),
		kong.Description("Generate fixed-buffer microcbor encoders and decoders for Go structs."),
	)

	log := newLogger(cli.Verbose)
	if err := run(&cli, &log); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func run(cli *CLI, log *zerolog.Logger) error {
	input := strings.TrimSpace(cli.Input)
	if input == "" {
		input = "."
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	opts := core.Options{Structs: cli.Structs, Borrow: cli.Borrow, Logger: log}
	if info.IsDir() {
		if cli.Output != "" {
			return errors.New("--output is not allowed when input is a directory")
		}
		return runForDir(input, opts)
	}

	// Single-file mode.
	out := cli.Output
	if strings.TrimSpace(out) == "" {
		out = defaultOutputPath(input)
	}
	return core.Run(input, out, opts)
}

// runForDir walks a directory tree and generates a companion
// "*_microcbor.go" file for each eligible Go source file.
func runForDir(dir string, opts core.Options) error {
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %q: %w", path, err)
		}
		if entry.IsDir() {
			return nil
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, generatedSuffix) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			// If we can't stat a file, treat it as fatal
			// to avoid silently skipping sources.
			return fmt.Errorf("stat %q: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		return core.Run(path, defaultOutputPath(path), opts)
	})
}

// defaultOutputPath derives the "*_microcbor.go" filename for
// a given input Go file path.
func defaultOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	return filepath.Join(dir, strings.TrimSuffix(base, ".go")+generatedSuffix)
}
