package errs

import "strconv"

// Code is a closed set of failure reasons shared by every layer of the
// codec. The zero value means success and never escapes as an error.
type Code uint8

const (
	Success Code = iota
	Tape
	Depth
	Empty
	UnclosedString
	String
	UTF8
	TAtom
	FAtom
	NAtom
	Capacity
	Number
	IncorrectType
	Uninitialized
	OutOfBounds
	InvalidJSONPointer
	NoSuchField
	NumberOutOfRange
	TrailingContent
	OutOfOrderIteration
	ScalarDocumentAsValue
	IncompleteArrayOrObject
	UnsupportedType
	UnsupportedValue
)

var messages = [...]string{
	Success:                 "success",
	Tape:                    "malformed structure",
	Depth:                   "document nests too deeply",
	Empty:                   "no JSON value found",
	UnclosedString:          "unclosed string",
	String:                  "invalid string",
	UTF8:                    "invalid UTF-8",
	TAtom:                   "invalid literal, expected true",
	FAtom:                   "invalid literal, expected false",
	NAtom:                   "invalid literal, expected null",
	Capacity:                "document too large",
	Number:                  "invalid number",
	IncorrectType:           "incorrect type",
	Uninitialized:           "uninitialized value",
	OutOfBounds:             "index out of bounds",
	InvalidJSONPointer:      "invalid JSON pointer",
	NoSuchField:             "no such field",
	NumberOutOfRange:        "number out of range",
	TrailingContent:         "unexpected content after root value",
	OutOfOrderIteration:     "value accessed out of order",
	ScalarDocumentAsValue:   "scalar document used as value",
	IncompleteArrayOrObject: "incomplete array or object",
	UnsupportedType:         "unsupported type",
	UnsupportedValue:        "unsupported value",
}

func (c Code) Error() string {
	if int(c) < len(messages) {
		return "lazyjson: " + messages[c]
	}
	return "lazyjson: error code " + strconv.Itoa(int(c))
}

// Local reports whether the error leaves a cursor usable for sibling
// accesses. Everything else is terminal.
func (c Code) Local() bool {
	switch c {
	case IncorrectType, NumberOutOfRange, NoSuchField, OutOfBounds:
		return true
	}
	return false
}

// Syntax is a parse-time failure anchored to a byte offset in the input.
type Syntax struct {
	Code   Code
	Offset int
}

func (e *Syntax) Error() string {
	return e.Code.Error() + " at offset " + strconv.Itoa(e.Offset)
}

func (e *Syntax) Unwrap() error { return e.Code }
