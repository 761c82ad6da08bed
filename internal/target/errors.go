package target

import (
	"errors"
	"fmt"
)

// Kind classifies invocation failures so the execution loop can record them
// without inspecting error strings.
type Kind string

const (
	// KindConnectivity covers network and transport failures: connection
	// refused, DNS failure, non-2xx responses without a usable body, or a
	// missing local capability.
	KindConnectivity Kind = "connectivity"
	// KindTimeout means a remote call or its polling loop exceeded its bound.
	KindTimeout Kind = "timeout"
	// KindMalformedResponse means a response was received but not in the
	// expected shape, including a remote-reported job failure.
	KindMalformedResponse Kind = "malformed_response"
)

// Error is a typed invocation failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the failure kind from an error chain. Errors that did not
// originate here are treated as connectivity failures.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindConnectivity
}
