// Package slicerr defines the typed failures that cross component
// boundaries: network fetches, engine calls and state checks.
//
// Callers match on kind with errors.Is:
//
//	if errors.Is(err, slicerr.ErrNotFound) { ... }
package slicerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindNetwork
	KindNotFound
	KindNotReady
	KindBusy
	KindEngineFault
	KindInvalid
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not found"
	case KindNotReady:
		return "not ready"
	case KindBusy:
		return "busy"
	case KindEngineFault:
		return "engine fault"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. They carry no context of their own.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrNetwork       = &Error{Kind: KindNetwork}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrNotReady      = &Error{Kind: KindNotReady}
	ErrBusy          = &Error{Kind: KindBusy}
	ErrEngineFault   = &Error{Kind: KindEngineFault}
	ErrInvalid       = &Error{Kind: KindInvalid}
)

// Error is a failure of a given kind raised by operation Op.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "profiles.LoadVendor".
	Op string
	// Key names the vendor, URL or setting involved, if any.
	Key string
	// Msg is a human-readable description. It is preferred over Err when set.
	Msg string
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	var b []byte
	if e.Op != "" {
		b = append(b, e.Op...)
		b = append(b, ": "...)
	}

	b = append(b, e.Kind.String()...)
	if e.Key != "" {
		b = fmt.Appendf(b, " %q", e.Key)
	}

	switch {
	case e.Msg != "":
		b = append(b, ": "...)
		b = append(b, e.Msg...)
	case e.Err != nil:
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}

	return string(b)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work
// with errors.Is regardless of Op, Key or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// New returns an error of the given kind.
func New(kind Kind, op, key, msg string) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Msg: msg}
}

// Wrap returns an error of the given kind wrapping err.
func Wrap(kind Kind, op, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// Message returns the user-facing message of err: Msg when set, else the
// full error string.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}

	return err.Error()
}
