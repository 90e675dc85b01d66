package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
	"github.com/biggeezerdevelopment/lazyjson/internal/charclass"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// valueIterator is a view of one value: where it starts on the tape and the
// depth it lives at. All movement happens on the shared jsonIterator.
type valueIterator struct {
	json  *jsonIterator
	depth int
	start int
}

func (v valueIterator) atStart() bool { return v.json.token.pos == v.start }

func (v valueIterator) atFirstField() bool {
	return v.json.token.pos == v.start+1 && v.json.depth == v.depth
}

func (v valueIterator) isOpen() bool { return v.json.depth >= v.depth }

func (v valueIterator) isRoot() bool { return v.depth == 1 }

func (v valueIterator) startChar() byte { return v.json.token.peekAt(v.start) }

// check gates every operation: the document must be parsed and alive, and v
// must still be the latest value handed out at its depth.
func (v valueIterator) check() error {
	j := v.json
	if j == nil || j.token.tape == nil {
		return errs.Uninitialized
	}
	if j.err != nil {
		return j.err
	}
	if j.owner(v.depth) != v.start {
		return j.fail(errs.OutOfOrderIteration)
	}
	return nil
}

// child returns the value at the cursor, one level below v.
func (v valueIterator) child() valueIterator {
	c := valueIterator{json: v.json, depth: v.depth + 1, start: v.json.token.pos}
	v.json.claim(c.depth, c.start)
	return c
}

func (v valueIterator) typ() (Type, error) {
	if err := v.check(); err != nil {
		return TypeInvalid, err
	}
	switch c := v.startChar(); {
	case c == '{':
		return TypeObject, nil
	case c == '[':
		return TypeArray, nil
	case c == '"':
		return TypeString, nil
	case c == 't' || c == 'f':
		return TypeBool, nil
	case c == 'n':
		return TypeNull, nil
	case c == '-' || charclass.IsDigit(c):
		return TypeNumber, nil
	}
	return TypeInvalid, v.json.fail(errs.Tape)
}

// Scalars.

// advanceScalar consumes v if the cursor still sits on it. Re-reading a
// scalar that was already consumed is allowed and leaves the cursor alone.
func (v valueIterator) advanceScalar() error {
	j := v.json
	if v.isRoot() && len(j.token.tape) != 2 {
		return j.fail(errs.TrailingContent)
	}
	if !v.atStart() {
		return nil
	}
	j.token.advance()
	j.ascendTo(v.depth - 1)
	return nil
}

func (v valueIterator) numberBytes() ([]byte, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	b := v.json.token.token(v.start)
	if c := b[0]; c != '-' && !charclass.IsDigit(c) {
		return nil, errs.IncorrectType
	}
	return b, nil
}

func (v valueIterator) getInt64() (int64, error) {
	b, err := v.numberBytes()
	if err != nil {
		return 0, err
	}
	n, err := atom.ParseInt(b)
	if err != nil {
		return 0, v.json.report(err)
	}
	return n, v.advanceScalar()
}

func (v valueIterator) getUint64() (uint64, error) {
	b, err := v.numberBytes()
	if err != nil {
		return 0, err
	}
	n, err := atom.ParseUint(b)
	if err != nil {
		return 0, v.json.report(err)
	}
	return n, v.advanceScalar()
}

func (v valueIterator) getFloat64() (float64, error) {
	b, err := v.numberBytes()
	if err != nil {
		return 0, err
	}
	f, err := atom.ParseFloat(b)
	if err != nil {
		return 0, v.json.report(err)
	}
	return f, v.advanceScalar()
}

func (v valueIterator) getNumber() (Number, error) {
	b, err := v.numberBytes()
	if err != nil {
		return Number{}, err
	}
	n, err := atom.ParseNumber(b)
	if err != nil {
		return Number{}, v.json.report(err)
	}
	return n, v.advanceScalar()
}

func (v valueIterator) getBool() (bool, error) {
	if err := v.check(); err != nil {
		return false, err
	}
	b := v.json.token.token(v.start)
	switch b[0] {
	case 't':
		if !atom.IsTrue(b) {
			return false, v.json.fail(errs.TAtom)
		}
		return true, v.advanceScalar()
	case 'f':
		if !atom.IsFalse(b) {
			return false, v.json.fail(errs.FAtom)
		}
		return false, v.advanceScalar()
	}
	return false, errs.IncorrectType
}

// isNull consumes v only when it is null.
func (v valueIterator) isNull() (bool, error) {
	if err := v.check(); err != nil {
		return false, err
	}
	b := v.json.token.token(v.start)
	if b[0] != 'n' {
		return false, nil
	}
	if !atom.IsNull(b) {
		return false, v.json.fail(errs.NAtom)
	}
	return true, v.advanceScalar()
}

// rawString returns the still-escaped body of a string value.
func (v valueIterator) rawString() ([]byte, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if v.startChar() != '"' {
		return nil, errs.IncorrectType
	}
	body, err := v.json.stringBody(v.start)
	if err != nil {
		return nil, err
	}
	return body, v.advanceScalar()
}

func (v valueIterator) stringBytes() ([]byte, error) {
	body, err := v.rawString()
	if err != nil {
		return nil, err
	}
	return v.json.unescape(body)
}

// raw returns the JSON text of v. A container is consumed whole, from its
// start, even if it had been entered before.
func (v valueIterator) raw() ([]byte, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	j := v.json
	switch v.startChar() {
	case '{', '[':
		j.reenter(v.start, v.depth)
		if err := j.skipChild(v.depth - 1); err != nil {
			return nil, err
		}
		from, to := j.token.offset(v.start), j.token.offset(j.token.pos-1)+1
		return j.token.buf[from:to:to], nil
	}
	s := j.token.span(v.start)
	return s, v.advanceScalar()
}

// skip consumes v wherever the cursor is inside it.
func (v valueIterator) skip() error {
	if err := v.check(); err != nil {
		return err
	}
	if v.atStart() {
		switch v.startChar() {
		case '{', '[':
		default:
			return v.advanceScalar()
		}
	}
	return v.json.skipChild(v.depth - 1)
}

// Containers.

// enter steps into an object or array. Entering a container a second time
// resumes it where the cursor is.
func (v valueIterator) enter(open, close byte) error {
	if err := v.check(); err != nil {
		return err
	}
	if v.startChar() != open {
		return errs.IncorrectType
	}
	if !v.atStart() {
		return nil
	}
	j := v.json
	if v.isRoot() && j.token.peekAt(j.token.end()-1) != close {
		return j.fail(errs.IncompleteArrayOrObject)
	}
	j.token.advance()
	return v.started(close)
}

// started runs right after the opening bracket. An empty container is
// consumed on the spot; arrays descend to their first element.
func (v valueIterator) started(close byte) error {
	j := v.json
	if j.token.peek() == close {
		j.token.advance()
		j.ascendTo(v.depth - 1)
		return j.leftRoot()
	}
	if close == ']' {
		j.descendTo(v.depth + 1)
	}
	return nil
}

// reset moves the cursor back to the first member of an entered container.
func (v valueIterator) reset(close byte) error {
	if err := v.check(); err != nil {
		return err
	}
	v.json.reenter(v.start+1, v.depth)
	return v.started(close)
}

func (v valueIterator) hasNextField() (bool, error) {
	j := v.json
	switch j.token.advance() {
	case '}':
		j.ascendTo(v.depth - 1)
		return false, j.leftRoot()
	case ',':
		return true, nil
	}
	return false, j.fail(errs.Tape)
}

func (v valueIterator) hasNextElement() (bool, error) {
	j := v.json
	switch j.token.advance() {
	case ']':
		j.ascendTo(v.depth - 1)
		return false, j.leftRoot()
	case ',':
		j.descendTo(v.depth + 1)
		return true, nil
	}
	return false, j.fail(errs.Tape)
}

// fieldKey reads a key and its colon, leaving the cursor on the value.
func (v valueIterator) fieldKey() ([]byte, error) {
	j := v.json
	at := j.token.pos
	if j.token.advance() != '"' {
		return nil, j.fail(errs.Tape)
	}
	key, err := j.stringBody(at)
	if err != nil {
		return nil, err
	}
	if j.token.advance() != ':' {
		return nil, j.fail(errs.Tape)
	}
	j.descendTo(v.depth + 1)
	return key, nil
}

// findField searches forward from the cursor for key. It never looks back
// at fields already passed.
func (v valueIterator) findField(key string) (bool, error) {
	j := v.json
	more := true
	switch {
	case v.atFirstField():
	case !v.isOpen():
		return false, nil
	default:
		if err := j.skipChild(v.depth); err != nil {
			return false, err
		}
		var err error
		if more, err = v.hasNextField(); err != nil {
			return false, err
		}
	}

	for more {
		raw, err := v.fieldKey()
		if err != nil {
			return false, err
		}
		if j.keyEquals(raw, key) {
			return true, nil
		}
		if err := j.skipChild(v.depth); err != nil {
			return false, err
		}
		if more, err = v.hasNextField(); err != nil {
			return false, err
		}
	}
	return false, nil
}

// findFieldUnordered searches forward from the cursor and, failing that,
// once more from the first field up to where the search began.
func (v valueIterator) findFieldUnordered(key string) (bool, error) {
	j := v.json
	searchStart := j.token.pos
	atFirst := v.atFirstField()
	more := true
	var err error

	switch {
	case atFirst:
	case !v.isOpen():
		v.json.reenter(v.start+1, v.depth)
		if err := v.started('}'); err != nil {
			return false, err
		}
		more = v.isOpen()
		atFirst = true
	default:
		if err := j.skipChild(v.depth); err != nil {
			return false, err
		}
		searchStart = j.token.pos
		if more, err = v.hasNextField(); err != nil {
			return false, err
		}
	}

	for more {
		raw, err := v.fieldKey()
		if err != nil {
			return false, err
		}
		if j.keyEquals(raw, key) {
			return true, nil
		}
		if err := j.skipChild(v.depth); err != nil {
			return false, err
		}
		if more, err = v.hasNextField(); err != nil {
			return false, err
		}
	}
	if atFirst {
		return false, nil
	}

	// The fields before searchStart were read once already.
	j.reenter(v.start+1, v.depth)
	for {
		raw, err := v.fieldKey()
		if err != nil {
			return false, err
		}
		if j.keyEquals(raw, key) {
			return true, nil
		}
		if err := j.skipChild(v.depth); err != nil {
			return false, err
		}
		if j.token.pos == searchStart {
			return false, nil
		}
		if _, err := v.hasNextField(); err != nil {
			return false, err
		}
	}
}

// eachField calls fn for every field from the cursor on. key is the raw,
// still-escaped key. Whatever fn leaves unread of a value is skipped.
func (v valueIterator) eachField(fn func(key []byte, value valueIterator) error) error {
	j := v.json
	if !v.isOpen() {
		return nil
	}
	for {
		key, err := v.fieldKey()
		if err != nil {
			return err
		}
		if err := fn(key, v.child()); err != nil {
			return err
		}
		if err := j.skipChild(v.depth); err != nil {
			return err
		}
		more, err := v.hasNextField()
		if !more || err != nil {
			return err
		}
	}
}

// eachElement calls fn for every element from the cursor on.
func (v valueIterator) eachElement(fn func(value valueIterator) error) error {
	j := v.json
	if !v.isOpen() {
		return nil
	}
	for {
		if err := fn(v.child()); err != nil {
			return err
		}
		if err := j.skipChild(v.depth); err != nil {
			return err
		}
		more, err := v.hasNextElement()
		if !more || err != nil {
			return err
		}
	}
}
