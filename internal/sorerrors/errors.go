// Package sorerrors defines the error-kind taxonomy shared by every codec
// and container package in this module. Codecs return *Error values on
// corrupt input; a codec may instead panic with an *Error internally
// (package huffman's tree deserializer does) and convert it back with
// Recover at its boundary, so tight loops need no error plumbing at every
// call site.
package sorerrors

import (
	"fmt"
	"runtime"
)

// Kind classifies why an operation failed.
type Kind uint8

const (
	_ Kind = iota
	InvalidMagic
	UnsupportedVersion
	UnknownMethod
	Truncated
	InvalidFraming
	InvalidDedupReference
	CodecFailure
	SizeMismatch
)

func (k Kind) String() string {
	switch k {
	case InvalidMagic:
		return "invalid magic"
	case UnsupportedVersion:
		return "unsupported version"
	case UnknownMethod:
		return "unknown method"
	case Truncated:
		return "truncated"
	case InvalidFraming:
		return "invalid framing"
	case InvalidDedupReference:
		return "invalid dedup reference"
	case CodecFailure:
		return "codec failure"
	case SizeMismatch:
		return "size mismatch"
	default:
		return "unknown error kind"
	}
}

// Error is the concrete error type produced by this module. EntryIndex is
// -1 when the error is not attributable to a specific archive entry.
type Error struct {
	Kind       Kind
	Msg        string
	EntryIndex int
}

func (e *Error) Error() string {
	if e.EntryIndex >= 0 {
		return fmt.Sprintf("sor2: entry %d: %s: %s", e.EntryIndex, e.Kind, e.Msg)
	}
	return fmt.Sprintf("sor2: %s: %s", e.Kind, e.Msg)
}

// E constructs an *Error with no entry association.
func E(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), EntryIndex: -1}
}

// WithEntry returns a copy of err associated with the given entry index.
func (e *Error) WithEntry(idx int) *Error {
	ne := *e
	ne.EntryIndex = idx
	return &ne
}

// Panic raises an *Error of the given kind as a panic, for use inside
// codecs that would otherwise need to thread an error return through every
// recursive or tightly-looped call.
func Panic(kind Kind, format string, args ...interface{}) {
	panic(E(kind, format, args...))
}

// Recover must be deferred at the top of any exported function that calls
// codecs using Panic. Runtime errors (nil dereference, index out of range)
// and non-error panic values are re-panicked rather than swallowed; any
// other error value, *Error included, is converted into an ordinary return.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case *Error:
		*err = ex
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
