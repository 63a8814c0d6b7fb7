package templates

import "embed"

// FS exposes the codegen templates used by microcborgen
// for per-struct encode/decode/size generation.
//
//go:embed *.go.tpl
var FS embed.FS
