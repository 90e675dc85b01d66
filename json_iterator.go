package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// jsonIterator is the single cursor shared by a Document and every Value,
// Object and Array taken from it. Depth 1 is the root value; depth 0 means
// the document is finished or abandoned.
type jsonIterator struct {
	token tokenIterator
	depth int
	err   error

	// owners[d] is the start position of the value most recently handed
	// out at depth d. A value that no longer owns its depth has been passed.
	owners []int

	strings []byte
	keys    []byte
	parser  *Parser
}

func (j *jsonIterator) init(p *Parser, buf []byte, tape []uint32) {
	j.parser = p
	j.token = tokenIterator{buf: buf, tape: tape}
	j.strings = j.strings[:0]
	j.rewind()
}

func (j *jsonIterator) invalidate() {
	j.token = tokenIterator{}
	j.err = errs.Uninitialized
	j.depth = 0
}

func (j *jsonIterator) rewind() {
	j.token.pos = 0
	j.depth = 1
	j.err = nil
	j.owners = append(j.owners[:0], -1, 0)
}

func (j *jsonIterator) alive() bool { return j.depth > 0 }

func (j *jsonIterator) abandon() {
	j.token.pos = j.token.end()
	j.depth = 0
}

func (j *jsonIterator) ascendTo(depth int)  { j.depth = depth }
func (j *jsonIterator) descendTo(depth int) { j.depth = depth }

// reenter puts the cursor back at position pos inside a container at depth.
func (j *jsonIterator) reenter(pos, depth int) {
	j.token.pos = pos
	j.depth = depth
	if len(j.owners) > depth+1 {
		j.owners = j.owners[:depth+1]
	}
}

// claim hands out the value at start for depth. Values saved from deeper
// levels belonged to an earlier value and are stale from here on.
func (j *jsonIterator) claim(depth, start int) {
	for len(j.owners) <= depth {
		j.owners = append(j.owners, -1)
	}
	j.owners[depth] = start
	j.owners = j.owners[:depth+1]
}

func (j *jsonIterator) owner(depth int) int {
	if depth < len(j.owners) {
		return j.owners[depth]
	}
	return -1
}

// leftRoot checks that closing the root used up the whole tape.
func (j *jsonIterator) leftRoot() error {
	if j.depth == 0 && !j.token.atEnd() {
		return j.fail(errs.TrailingContent)
	}
	return nil
}

// fail records a terminal error at the last token read and kills the cursor.
func (j *jsonIterator) fail(code errs.Code) error {
	pos := j.token.pos
	if pos > 0 {
		pos--
	}
	err := &errs.Syntax{Code: code, Offset: j.token.offset(pos)}
	if j.parser != nil {
		j.parser.logger.Debug("lazyjson: cursor failed", "code", code.Error(), "offset", err.Offset)
	}
	j.err = err
	j.abandon()
	return err
}

// report passes local errors through untouched and turns anything else into
// a terminal failure.
func (j *jsonIterator) report(err error) error {
	code, ok := err.(errs.Code)
	if !ok {
		return j.fail(errs.Tape)
	}
	if code.Local() {
		return code
	}
	return j.fail(code)
}

// skipChild consumes tokens until the cursor is back at parentDepth. The
// cursor is either at the start of the child, where depth already counts it,
// or somewhere inside it.
func (j *jsonIterator) skipChild(parentDepth int) error {
	if j.depth <= parentDepth {
		return nil
	}
	t := &j.token

	switch t.advance() {
	case '[', '{', ':':
		// depth already counts the first container; colons never change it
	case ',':
	case ']', '}':
		j.depth--
		if j.depth <= parentDepth {
			return j.leftRoot()
		}
		if t.atEnd() {
			return j.fail(errs.IncompleteArrayOrObject)
		}
	case '"':
		if t.peek() == ':' {
			// a key: the object was entered and never read
			t.advance()
			break
		}
		fallthrough
	default:
		j.depth--
		if j.depth <= parentDepth {
			return j.leftRoot()
		}
	}

	for !t.atEnd() {
		switch t.advance() {
		case '[', '{':
			j.depth++
		case ']', '}':
			j.depth--
			if j.depth <= parentDepth {
				return j.leftRoot()
			}
		}
	}
	return j.fail(errs.Tape)
}

// stringBody returns the raw bytes between the quotes of the string token at
// tape position i.
func (j *jsonIterator) stringBody(i int) ([]byte, error) {
	s := j.token.span(i)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return nil, j.fail(errs.UnclosedString)
	}
	return s[1 : len(s)-1], nil
}

// unescape decodes a raw string body into the document's string scratch and
// returns a view of the result. Bodies without escapes are returned as is.
func (j *jsonIterator) unescape(body []byte) ([]byte, error) {
	if !atom.HasEscape(body) {
		return body, nil
	}
	mark := len(j.strings)
	out, err := atom.Unescape(j.strings, body)
	if err != nil {
		j.strings = j.strings[:mark]
		return nil, j.fail(errs.String)
	}
	j.strings = out
	return out[mark:len(out):len(out)], nil
}

// keyEquals compares a raw key body with key. Escapes only ever shorten a
// string, so the raw bytes decide unless the raw key is longer and contains
// a backslash.
func (j *jsonIterator) keyEquals(raw []byte, key string) bool {
	switch {
	case len(raw) < len(key):
		return false
	case len(raw) == len(key):
		return atom.UnsafeString(raw) == key && !atom.HasEscape(raw)
	}
	if !atom.HasEscape(raw) {
		return false
	}
	out, err := atom.Unescape(j.keys[:0], raw)
	j.keys = out
	return err == nil && atom.UnsafeString(out) == key
}
