package core

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"

	tmplfs "github.com/synadia-labs/microcbor/microcborgen/templates"
)

const runtimeAlias = "cbor"

var templateFuncs = template.FuncMap{
	"rt": runtimeName,
}

func runtimeName(name string) string {
	return runtimeAlias + "." + name
}

// ErrNoStructs is returned by Generate when the input declares no struct
// type eligible for generation.
var ErrNoStructs = errors.New("microcborgen: no struct types to generate")

// Options configures how generation runs.
type Options struct {
	// Structs, if non-empty, restricts generation to the
	// named struct types. Names must match Go type names
	// exactly (no package qualification).
	Structs []string
	// Borrow makes decoded string and []byte fields alias the
	// decoded buffer instead of copying.
	Borrow bool
	// Logger receives per-struct and per-field diagnostics.
	// A nil Logger discards them.
	Logger *zerolog.Logger
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

// Run generates microcbor methods for a single Go source file and
// writes them to outputPath. A file without eligible structs produces
// no output and no error.
func Run(inputPath, outputPath string, opts Options) error {
	src, err := Generate(inputPath, nil, opts)
	if errors.Is(err, ErrNoStructs) {
		opts.logger().Debug().Str("input", inputPath).Msg("no structs, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, src, 0o644); err != nil {
		return err
	}
	opts.logger().Info().Str("input", inputPath).Str("output", outputPath).Msg("generated")
	return nil
}

// Generate parses the Go source in filename (or src, when non-nil, as
// go/parser accepts it) and returns the formatted generated file.
func Generate(filename string, src any, opts Options) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	return generateStructCode(file, filename, opts)
}

type fieldSpec struct {
	GoName        string
	CBORName      string
	OmitEmpty     bool
	OmitEmptyCond string
	Encode        string
	Decode        string
	Size          string
	Ignore        bool
}

type structSpec struct {
	Name     string
	Fields   []fieldSpec
	NeedsSub bool
}

type fileData struct {
	Package    string
	UseBytes   bool
	UseStrings bool
	UseTime    bool
	Structs    []structSpec
}

// generateStructCode finds struct types in the given file and generates
// EncodeMicroCBOR, DecodeMicroCBOR and MicroCBORSize for each, honoring
// cbor/json tags.
//
// cbor tag rules:
//   - if cbor tag present: it wins
//   - if cbor tag absent, json tag is used
//   - if both absent, Go field name is used
func generateStructCode(file *ast.File, filename string, opts Options) ([]byte, error) {
	log := opts.logger()

	var allowed map[string]struct{}
	if len(opts.Structs) > 0 {
		allowed = make(map[string]struct{}, len(opts.Structs))
		for _, name := range opts.Structs {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			allowed[name] = struct{}{}
		}
	}

	// First pass: the struct types this run generates, so nested fields
	// of those types can use MicroCBORSize directly.
	generated := map[string]*ast.StructType{}
	var order []string
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.TypeParams != nil {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			if len(allowed) > 0 {
				if _, ok := allowed[ts.Name.Name]; !ok {
					continue
				}
			}
			generated[ts.Name.Name] = st
			order = append(order, ts.Name.Name)
		}
	}
	if len(order) == 0 {
		return nil, ErrNoStructs
	}

	data := fileData{Package: file.Name.Name}
	for _, name := range order {
		st := generated[name]
		ss := structSpec{Name: name}
		for _, field := range st.Fields.List {
			// Skip anonymous fields for now.
			if len(field.Names) == 0 {
				continue
			}
			for _, ident := range field.Names {
				goName := ident.Name
				if !ast.IsExported(goName) {
					continue
				}
				fs := resolveFieldSpec(goName, field.Tag)
				if fs.Ignore {
					continue
				}
				fk, ok := classifyField(field.Type, generated)
				if !ok {
					log.Warn().Str("struct", name).Str("field", goName).
						Str("type", exprString(field.Type)).Msg("unsupported field type, skipping")
					continue
				}
				if err := fk.render(&fs, opts.Borrow); err != nil {
					return nil, fmt.Errorf("%s.%s: %w", name, goName, err)
				}
				if fs.OmitEmpty {
					if cond, ok := omitEmptyCondExpr(goName, fk); ok {
						fs.OmitEmptyCond = cond
						fs.Encode = "if " + cond + " {\n" + fs.Encode + "\n}"
					} else {
						fs.OmitEmpty = false
					}
				}
				switch fk.kind {
				case kindStruct, kindPtr:
					ss.NeedsSub = true
				case kindString:
					data.UseStrings = data.UseStrings || !opts.Borrow
				case kindBytes:
					data.UseBytes = data.UseBytes || !opts.Borrow
				case kindTime:
					data.UseTime = true
				}
				log.Debug().Str("struct", name).Str("field", goName).Str("key", fs.CBORName).Msg("field")
				ss.Fields = append(ss.Fields, fs)
			}
		}
		data.Structs = append(data.Structs, ss)
	}

	var buf bytes.Buffer
	if err := fileTemplate.ExecuteTemplate(&buf, "microcbor.go.tpl", data); err != nil {
		return nil, err
	}

	src, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		// Fall back to go/format if goimports fails.
		formatted, ferr := format.Source(buf.Bytes())
		if ferr != nil {
			return nil, fmt.Errorf("format generated code: %w", ferr)
		}
		src = formatted
	}
	return src, nil
}

// resolveFieldSpec applies tag resolution rules:
// - cbor tag primary
// - if no cbor tag, use json tag
// - if both absent, use Go field name
func resolveFieldSpec(goName string, tag *ast.BasicLit) fieldSpec {
	fs := fieldSpec{GoName: goName, CBORName: goName}
	if tag == nil {
		return fs
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return fs
	}
	st := reflect.StructTag(raw)
	for _, key := range []string{"cbor", "json"} {
		v, ok := parseTag(st.Get(key))
		if !ok {
			continue
		}
		if v == "-" {
			fs.Ignore = true
			return fs
		}
		fs.CBORName, fs.OmitEmpty = splitNameOptions(v, goName)
		return fs
	}
	return fs
}

// parseTag returns the raw tag string and whether it was present.
func parseTag(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	return v, true
}

// splitNameOptions splits a tag like "name,omitempty" into name and
// omitEmpty flag. An empty name keeps the Go field name.
func splitNameOptions(tag, goName string) (string, bool) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	omit := false
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omit = true
		}
	}
	if name == "" {
		name = goName
	}
	return name, omit
}

type omitEmptyCondTemplateData struct {
	Receiver string
	Field    string
	Kind     string
}

var omitEmptyCondTemplate = template.Must(template.New("zero_check.go.tpl").Funcs(templateFuncs).ParseFS(tmplfs.FS, "zero_check.go.tpl"))

// omitEmptyCondExpr builds a non-zero check expression for a field in
// terms of receiver 'x'. Returns ok=false if the kind has no zero check.
func omitEmptyCondExpr(goName string, fk fieldKind) (string, bool) {
	data := omitEmptyCondTemplateData{Receiver: "x", Field: goName}
	switch fk.kind {
	case kindString:
		data.Kind = "string"
	case kindScalar:
		if fk.method == "Bool" {
			data.Kind = "bool"
		} else {
			data.Kind = "numeric"
		}
	case kindDuration:
		data.Kind = "numeric"
	case kindTime:
		data.Kind = "time"
	case kindPtr:
		data.Kind = "ptr"
	case kindBytes, kindArray:
		data.Kind = "slice"
	default:
		return "", false
	}

	var buf bytes.Buffer
	if err := omitEmptyCondTemplate.ExecuteTemplate(&buf, "omitEmptyCond", data); err != nil {
		return "", false
	}
	expr := strings.TrimSpace(buf.String())
	return expr, expr != ""
}

// fileTemplate drives per-file generation; fieldTemplate holds the
// per-field encode, decode and size statements.
var (
	fileTemplate  = template.Must(template.New("microcbor.go.tpl").Funcs(templateFuncs).ParseFS(tmplfs.FS, "microcbor.go.tpl"))
	fieldTemplate = template.Must(template.New("field.go.tpl").Funcs(templateFuncs).ParseFS(tmplfs.FS, "field.go.tpl"))
)

type fieldTemplateData struct {
	Field     string
	Key       string
	Method    string
	Zero      string
	GoType    string
	Elem      string
	SizeConst string
	Generated bool
}

func execField(name string, data fieldTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := fieldTemplate.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func exprString(e ast.Expr) string {
	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), e); err != nil {
		return fmt.Sprintf("%T", e)
	}
	return buf.String()
}
