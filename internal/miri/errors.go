package miri

import "fmt"

// ErrorCode identifies a recoverable evaluation failure.
type ErrorCode int

// Stable error codes - do not change values.
const (
	ErrUndefinedRef   ErrorCode = 2001 // MIRI2001: undefined reference
	ErrNotApplicable  ErrorCode = 2002 // MIRI2002: value is not a function
	ErrTypeMismatch   ErrorCode = 2003 // MIRI2003: wrong runtime type
	ErrDivisionByZero ErrorCode = 2004 // MIRI2004: div or mod by zero
	ErrStepLimit      ErrorCode = 2005 // MIRI2005: step budget exhausted
)

// String returns the code as "MIRI2001" format.
func (c ErrorCode) String() string {
	return fmt.Sprintf("MIRI%d", int(c))
}

// Error is an evaluation error. The evaluation that produced it is over;
// values created before it stay valid.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

func undefinedRef(name string) *Error {
	return &Error{Code: ErrUndefinedRef, Message: "undefined reference: " + name}
}

func notApplicable(v Value) *Error {
	return &Error{Code: ErrNotApplicable, Message: fmt.Sprintf("not applicable: %s", v)}
}

func typeMismatch(format string, args ...any) *Error {
	return &Error{Code: ErrTypeMismatch, Message: "type error: " + fmt.Sprintf(format, args...)}
}
