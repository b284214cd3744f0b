// Package imgerr defines the error kinds reported by the image engine.
//
// Each kind is a sentinel error. Failures are returned as *Error values that
// carry the operation, the file involved and the underlying cause, and that
// match their kind with errors.Is.
package imgerr

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrDecode           = errors.New("decode error")
	ErrNotLoaded        = errors.New("image not loaded")
	ErrShape            = errors.New("shape error")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidRegion    = errors.New("invalid region")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrEncode           = errors.New("encode error")
	ErrWrite            = errors.New("write error")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrDecode, "DecodeError"},
	{ErrNotLoaded, "NotLoaded"},
	{ErrShape, "ShapeError"},
	{ErrInvalidParameter, "InvalidParameter"},
	{ErrInvalidRegion, "InvalidRegion"},
	{ErrUnknownOperation, "UnknownOperation"},
	{ErrEncode, "EncodeError"},
	{ErrWrite, "WriteError"},
}

// Error is a classified engine failure.
type Error struct {
	Op   string // operation that failed, e.g. "blur" or "save"
	Path string // file involved, if any
	Kind error  // one of the Err* kinds
	Err  error  // underlying cause, may be nil
}

// New returns an *Error of the given kind with a formatted cause.
func New(kind error, op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err as kind. A nil err yields nil.
func Wrap(kind error, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// KindOf returns the name of the outermost error kind in err's chain,
// or "Error" for unclassified errors and "" for nil.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		for _, k := range kinds {
			if e.Kind == k.err {
				return k.name
			}
		}
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Error"
}
