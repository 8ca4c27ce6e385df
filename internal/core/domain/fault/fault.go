// Package fault defines the domain error taxonomy shared by the service
// layer and the HTTP boundary.
//
// Every domain failure is an *Error carrying a Kind. The boundary layer
// switches on the kind to pick a response code; callers inside the core
// test kinds with the Is* helpers instead of matching message strings.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind int

const (
	KindUnknown Kind = iota

	// KindNotFound: an order, product, client or user id did not resolve.
	KindNotFound

	// KindInsufficientStock: a requested quantity exceeds available stock.
	KindInsufficientStock

	// KindValidation: malformed or rule-violating input (bad date, negative
	// price, invalid CPF checksum, unknown status, ...).
	KindValidation

	// KindConflict: a unique or foreign-key constraint was violated.
	KindConflict

	// KindUnauthorized: missing or invalid token.
	KindUnauthorized

	// KindForbidden: the actor's role does not permit the operation.
	KindForbidden
)

// Error is a typed domain failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool          { return KindOf(err) == KindNotFound }
func IsInsufficientStock(err error) bool { return KindOf(err) == KindInsufficientStock }
func IsValidation(err error) bool        { return KindOf(err) == KindValidation }
func IsConflict(err error) bool          { return KindOf(err) == KindConflict }
