package scanner

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// DefaultMaxDepth bounds container nesting during validation.
const DefaultMaxDepth = 1024

type expect uint8

const (
	expectValue expect = iota
	expectKey
	expectColon
	expectNext
)

// Validate checks that a tape describes exactly one well-formed JSON value.
// buf is the logical input and tape its index with the sentinel. On success
// every later navigation over the tape can trust its shape.
func Validate(buf []byte, tape []uint32, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if len(tape) < 2 {
		return &errs.Syntax{Code: errs.Empty, Offset: 0}
	}

	var stackBuf [64]byte
	stack := stackBuf[:0]
	state := expectValue
	n := len(tape) - 1

	for i := 0; i < n; i++ {
		off, next := tape[i], tape[i+1]
		c := buf[off]

		switch state {
		case expectKey:
			if c != '"' {
				return syntaxAt(errs.Tape, off)
			}
			if code := checkString(buf[off:next]); code != errs.Success {
				return syntaxAt(code, off)
			}
			state = expectColon

		case expectColon:
			if c != ':' {
				return syntaxAt(errs.Tape, off)
			}
			state = expectValue

		case expectValue:
			switch c {
			case '{', '[':
				if len(stack) >= maxDepth {
					return syntaxAt(errs.Depth, off)
				}
				closer := byte('}')
				state = expectKey
				if c == '[' {
					closer = ']'
					state = expectValue
				}
				if i+1 < n && buf[next] == closer {
					// empty container
					i++
					state = expectNext
					continue
				}
				stack = append(stack, c)
			default:
				if code := checkAtom(buf[off:next]); code != errs.Success {
					return syntaxAt(code, off)
				}
				state = expectNext
			}

		case expectNext:
			if len(stack) == 0 {
				return syntaxAt(errs.TrailingContent, off)
			}
			top := stack[len(stack)-1]
			switch {
			case c == ',' && top == '{':
				state = expectKey
			case c == ',':
				state = expectValue
			case c == '}' && top == '{', c == ']' && top == '[':
				stack = stack[:len(stack)-1]
			default:
				return syntaxAt(errs.Tape, off)
			}
		}
	}

	if len(stack) > 0 || state != expectNext {
		return &errs.Syntax{Code: errs.IncompleteArrayOrObject, Offset: len(buf)}
	}
	return nil
}

// checkAtom validates a scalar token; b runs up to the next tape entry.
func checkAtom(b []byte) errs.Code {
	switch b[0] {
	case '"':
		return checkString(b)
	case 't':
		if !atom.IsTrue(atom.TrimSpace(b)) {
			return errs.TAtom
		}
	case 'f':
		if !atom.IsFalse(atom.TrimSpace(b)) {
			return errs.FAtom
		}
	case 'n':
		if !atom.IsNull(atom.TrimSpace(b)) {
			return errs.NAtom
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if !atom.ValidNumber(atom.TrimSpace(b)) {
			return errs.Number
		}
	default:
		return errs.Tape
	}
	return errs.Success
}

// checkString validates a string token including its quotes.
func checkString(b []byte) errs.Code {
	end := atom.StringEnd(b[1:])
	if end < 0 {
		return errs.UnclosedString
	}
	if len(atom.TrimSpace(b[end+2:])) != 0 {
		return errs.Tape
	}
	if err := atom.ValidString(b[1 : end+1]); err != nil {
		return errs.String
	}
	return errs.Success
}

func syntaxAt(code errs.Code, off uint32) error {
	return &errs.Syntax{Code: code, Offset: int(off)}
}
