package mir

import "fmt"

// DecodeCode identifies the kind of decode failure.
type DecodeCode uint16

// Stable decode codes - do not change values.
const (
	DecUnexpectedEOF      DecodeCode = 1001 // MIR1001: input ended inside a form
	DecUnexpectedToken    DecodeCode = 1002 // MIR1002: token not valid here
	DecTrailingInput      DecodeCode = 1003 // MIR1003: more than one top-level form
	DecKeywordArity       DecodeCode = 1004 // MIR1004: keyword form with wrong operand count
	DecExpectedIdent      DecodeCode = 1005 // MIR1005: identifier required
	DecImproperList       DecodeCode = 1006 // MIR1006: dotted tail
	DecUnknownKeyword     DecodeCode = 1007 // MIR1007: keyword is not let/lambda/if/comment
	DecUnsupportedLiteral DecodeCode = 1008 // MIR1008: vector, bytes, char, float or bare string
	DecBadNumber          DecodeCode = 1009 // MIR1009: integer out of range or malformed
	DecEmptyApplication   DecodeCode = 1010 // MIR1010: list without an argument
	DecUnterminatedString DecodeCode = 1011 // MIR1011: string literal never closed
)

// String returns the code as "MIR1001".
func (c DecodeCode) String() string {
	return fmt.Sprintf("MIR%d", uint16(c))
}

// DecodeError reports malformed textual MIR.
type DecodeError struct {
	Code    DecodeCode
	Offset  int // byte offset into the decoded text
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Code, e.Offset, e.Message)
}

func decodeErrorf(code DecodeCode, off int, format string, args ...any) *DecodeError {
	return &DecodeError{Code: code, Offset: off, Message: fmt.Sprintf(format, args...)}
}
