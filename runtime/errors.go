package cbor

import (
	"errors"
	"strconv"
)

const resumableDefault = false

var (
	// ErrShortBytes is returned when the
	// buffer being decoded is too short to
	// contain the item its header announces
	ErrShortBytes error = errShort{}

	// ErrCapacityExceeded is latched when an append does not fit the
	// buffer. BytesNeeded still reports the size that would have fit.
	ErrCapacityExceeded error = errCapacity{}

	// ErrReadOnly is latched when a mutating call is made on a Codec
	// bound to a read-only buffer.
	ErrReadOnly error = errReadOnly{}

	// ErrNestingOverflow is latched when StartMap would open more than
	// MaxNesting maps.
	ErrNestingOverflow error = errNesting{}

	// ErrMaxDepthExceeded is returned when skip recursion depth exceeds limit
	ErrMaxDepthExceeded error = errors.New("cbor: max depth exceeded")

	// ErrMapTooLarge is latched by EndMap when the number of pairs does
	// not fit the header width reserved by StartMap.
	ErrMapTooLarge error = errors.New("cbor: map pair count does not fit reserved header")

	// ErrUnbalancedMap is latched by EndMap when the handle is not the
	// innermost open map.
	ErrUnbalancedMap error = errors.New("cbor: EndMap does not match innermost StartMap")

	// ErrUnsupportedTag is returned when a tag number needs more than
	// two trailing bytes.
	ErrUnsupportedTag error = errors.New("cbor: tag number out of range")

	// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8
	ErrInvalidUTF8 error = errors.New("cbor: invalid UTF-8 in text string")

	// ErrTrailingBytes is returned by Unmarshal when data follows the
	// top-level map.
	ErrTrailingBytes error = errors.New("cbor: trailing bytes after top-level item")
)

// Error is the interface satisfied
// by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable returns whether
	// or not the error means that
	// the buffer is malformed
	// and the information is unrecoverable.
	Resumable() bool
}

// contextError allows Error instances to be enhanced with additional
// context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable returns whether or not the error means that the buffer is
// malformed and the information is unrecoverable.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of
// the buffer that caused the problem to be identified. Underlying errors
// can be retrieved using Cause()
//
// The input error is not modified - a new error should be returned.
func WrapError(err error, ctx ...any) error {
	switch e := err.(type) {
	case contextError:
		return e.withContext(ctxString(ctx))
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func ctxString(ctx []any) string {
	out := ""
	for idx, c := range ctx {
		if idx > 0 {
			out += "/"
		}
		switch v := c.(type) {
		case string:
			out += v
		case int:
			out += strconv.Itoa(v)
		case Tag:
			out += "tag(" + strconv.Itoa(int(v)) + ")"
		default:
			out += "?"
		}
	}
	return out
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	} else {
		return add
	}
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	} else {
		return e.cause.Error()
	}
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

func (e errWrapped) withContext(ctx string) error { e.ctx = addCtx(e.ctx, ctx); return e }

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

type errShort struct{}

func (e errShort) Error() string   { return "cbor: too few bytes left to read object" }
func (e errShort) Resumable() bool { return false }

type errCapacity struct{}

func (e errCapacity) Error() string   { return "cbor: encoded data exceeds buffer capacity" }
func (e errCapacity) Resumable() bool { return true }

type errReadOnly struct{}

func (e errReadOnly) Error() string   { return "cbor: codec is bound to a read-only buffer" }
func (e errReadOnly) Resumable() bool { return true }

type errNesting struct{}

func (e errNesting) Error() string {
	return "cbor: more than " + strconv.Itoa(MaxNesting) + " nested maps"
}
func (e errNesting) Resumable() bool { return true }

// A TypeError is returned when a field
// holds a type other than the one
// requested by the caller.
type TypeError struct {
	Method  Type // Type expected by method
	Encoded Type // Type actually encoded

	ctx string
}

// Error implements the error interface
func (t TypeError) Error() string {
	out := "cbor: attempted to decode type " + strconv.Quote(t.Encoded.String()) + " with method for " + strconv.Quote(t.Method.String())
	if t.ctx != "" {
		out += " at " + t.ctx
	}
	return out
}

// Resumable returns 'true' for TypeErrors
func (t TypeError) Resumable() bool { return true }

func (t TypeError) withContext(ctx string) error { t.ctx = addCtx(t.ctx, ctx); return t }

// InvalidPrefixError is returned when an initial byte
// uses additional info the codec does not support
// (reserved values and indefinite lengths).
// This kind of error is unrecoverable.
type InvalidPrefixError struct {
	Prefix byte
	Offset int
}

// Error implements the error interface
func (i InvalidPrefixError) Error() string {
	return "cbor: unsupported initial byte 0x" + strconv.FormatUint(uint64(i.Prefix), 16) + " at offset " + strconv.Itoa(i.Offset)
}

// Resumable returns 'false' for InvalidPrefixErrors
func (i InvalidPrefixError) Resumable() bool { return false }

// ArrayError is returned when a typed array
// payload is not a whole number of elements.
type ArrayError struct {
	Tag    Tag
	Length uint32
	ctx    string
}

// Error implements the error interface
func (a ArrayError) Error() string {
	out := "cbor: typed array tag " + strconv.Itoa(int(a.Tag)) + " has payload of " + strconv.FormatUint(uint64(a.Length), 10) + " bytes"
	if a.ctx != "" {
		out += " at " + a.ctx
	}
	return out
}

// Resumable is always 'true' for ArrayErrors
func (a ArrayError) Resumable() bool { return true }

func (a ArrayError) withContext(ctx string) error { a.ctx = addCtx(a.ctx, ctx); return a }
