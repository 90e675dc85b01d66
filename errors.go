package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// ErrorCode is the closed set of reasons an operation can fail. Every error
// returned by this package matches exactly one code with errors.Is.
type ErrorCode = errs.Code

const (
	ErrTape                    = errs.Tape
	ErrDepth                   = errs.Depth
	ErrEmpty                   = errs.Empty
	ErrUnclosedString          = errs.UnclosedString
	ErrString                  = errs.String
	ErrUTF8                    = errs.UTF8
	ErrTAtom                   = errs.TAtom
	ErrFAtom                   = errs.FAtom
	ErrNAtom                   = errs.NAtom
	ErrCapacity                = errs.Capacity
	ErrNumber                  = errs.Number
	ErrIncorrectType           = errs.IncorrectType
	ErrUninitialized           = errs.Uninitialized
	ErrOutOfBounds             = errs.OutOfBounds
	ErrInvalidJSONPointer      = errs.InvalidJSONPointer
	ErrNoSuchField             = errs.NoSuchField
	ErrNumberOutOfRange        = errs.NumberOutOfRange
	ErrTrailingContent         = errs.TrailingContent
	ErrOutOfOrderIteration     = errs.OutOfOrderIteration
	ErrScalarDocumentAsValue   = errs.ScalarDocumentAsValue
	ErrIncompleteArrayOrObject = errs.IncompleteArrayOrObject
	ErrUnsupportedType         = errs.UnsupportedType
	ErrUnsupportedValue        = errs.UnsupportedValue
)

// SyntaxError reports where in the input parsing failed. Its Code is
// reachable with errors.Is.
type SyntaxError = errs.Syntax

// Error wraps a failure with the operation that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "lazyjson: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Must returns v, or panics with err. It is the opt-in shortcut for callers
// that treat a failed lookup as a programming error; nothing in the package
// relies on it.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
