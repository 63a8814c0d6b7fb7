package core

import (
	"go/ast"
	"strconv"
)

type kind int

const (
	kindScalar kind = iota
	kindString
	kindBytes
	kindArray
	kindTime
	kindDuration
	kindStruct
	kindPtr
)

// scalar describes a Go builtin that maps onto a fixed-width Codec value.
type scalar struct {
	method string // suffix of the Add/Get methods
	size   string // runtime size constant
	zero   string
}

var scalars = map[string]scalar{
	"bool":    {"Bool", "BoolSize", "false"},
	"int":     {"Int", "IntSize", "0"},
	"int8":    {"Int8", "Int8Size", "0"},
	"int16":   {"Int16", "Int16Size", "0"},
	"int32":   {"Int32", "Int32Size", "0"},
	"rune":    {"Int32", "Int32Size", "0"},
	"int64":   {"Int64", "Int64Size", "0"},
	"uint":    {"Uint", "UintSize", "0"},
	"uint8":   {"Uint8", "Uint8Size", "0"},
	"byte":    {"Uint8", "Uint8Size", "0"},
	"uint16":  {"Uint16", "Uint16Size", "0"},
	"uint32":  {"Uint32", "Uint32Size", "0"},
	"uint64":  {"Uint64", "Uint64Size", "0"},
	"float32": {"Float32", "Float32Size", "0"},
	"float64": {"Float64", "Float64Size", "0"},
}

// elemTypes maps slice element types to typed-array element constants.
// []uint8 and []byte are plain byte strings and are not listed.
var elemTypes = map[string]string{
	"int8":    "ElemInt8",
	"int16":   "ElemInt16",
	"int32":   "ElemInt32",
	"int64":   "ElemInt64",
	"uint16":  "ElemUint16",
	"uint32":  "ElemUint32",
	"uint64":  "ElemUint64",
	"float32": "ElemFloat32",
	"float64": "ElemFloat64",
}

type fieldKind struct {
	kind      kind
	method    string
	size      string
	zero      string
	goType    string
	elem      string
	generated bool
}

// classifyField maps a field type expression onto the Codec operation
// that carries it. generated holds the struct types emitted in this run.
func classifyField(typ ast.Expr, generated map[string]*ast.StructType) (fieldKind, bool) {
	switch t := typ.(type) {
	case *ast.Ident:
		if t.Name == "string" {
			return fieldKind{kind: kindString}, true
		}
		if s, ok := scalars[t.Name]; ok {
			return fieldKind{kind: kindScalar, method: s.method, size: s.size, zero: s.zero}, true
		}
		if t.Obj != nil && t.Obj.Kind == ast.Typ {
			// A local type: only structs are encodable as nested maps.
			if ts, ok := t.Obj.Decl.(*ast.TypeSpec); !ok || !isStruct(ts.Type) {
				return fieldKind{}, false
			}
		}
		if _, isGenerated := generated[t.Name]; isGenerated || ast.IsExported(t.Name) {
			return fieldKind{kind: kindStruct, goType: t.Name, generated: isGenerated}, true
		}

	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			fk, ok := classifyField(ident, generated)
			if ok && fk.kind == kindStruct {
				fk.kind = kindPtr
				return fk, true
			}
		}

	case *ast.ArrayType:
		if t.Len != nil {
			return fieldKind{}, false
		}
		ident, ok := t.Elt.(*ast.Ident)
		if !ok {
			return fieldKind{}, false
		}
		if ident.Name == "byte" || ident.Name == "uint8" {
			return fieldKind{kind: kindBytes}, true
		}
		if elem, ok := elemTypes[ident.Name]; ok {
			return fieldKind{kind: kindArray, goType: ident.Name, elem: elem}, true
		}

	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok && pkg.Name == "time" {
			switch t.Sel.Name {
			case "Time":
				return fieldKind{kind: kindTime}, true
			case "Duration":
				return fieldKind{kind: kindDuration}, true
			}
		}
	}
	return fieldKind{}, false
}

func isStruct(e ast.Expr) bool {
	_, ok := e.(*ast.StructType)
	return ok
}

// render fills the encode, decode and size statements of fs.
func (fk fieldKind) render(fs *fieldSpec, borrow bool) error {
	data := fieldTemplateData{
		Field:     fs.GoName,
		Key:       strconv.Quote(fs.CBORName),
		Method:    fk.method,
		Zero:      fk.zero,
		GoType:    fk.goType,
		Elem:      fk.elem,
		SizeConst: fk.size,
		Generated: fk.generated,
	}

	var enc, dec, size string
	switch fk.kind {
	case kindScalar:
		enc, dec, size = "encodeScalar", "decodeScalar", "sizeFixed"
	case kindString:
		data.Method, data.Zero = "String", `""`
		enc, dec, size = "encodeScalar", "decodeString", "sizeString"
		if borrow {
			dec = "decodeScalar"
		}
	case kindBytes:
		data.Method, data.Zero = "Bytes", "nil"
		enc, dec, size = "encodeScalar", "decodeBytes", "sizeBytes"
		if borrow {
			dec = "decodeScalar"
		}
	case kindArray:
		enc, dec, size = "encodeArray", "decodeArray", "sizeArray"
	case kindTime:
		data.Method, data.Zero, data.SizeConst = "Time", "time.Time{}", "TimeSize"
		enc, dec, size = "encodeScalar", "decodeScalar", "sizeFixed"
	case kindDuration:
		data.Method, data.Zero, data.SizeConst = "Duration", "0", "DurationSize"
		enc, dec, size = "encodeScalar", "decodeScalar", "sizeFixed"
	case kindStruct:
		enc, dec, size = "encodeStruct", "decodeStruct", "sizeStruct"
	case kindPtr:
		enc, dec, size = "encodePtr", "decodePtr", "sizePtr"
	}

	var err error
	if fs.Encode, err = execField(enc, data); err != nil {
		return err
	}
	if fs.Decode, err = execField(dec, data); err != nil {
		return err
	}
	fs.Size, err = execField(size, data)
	return err
}
