package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// Document is the root of a parsed input. It is read lazily and forward
// only: each getter reads from the cursor, and going back to something
// already passed needs Rewind.
//
// A Document belongs to the Parser that produced it and is replaced by the
// Parser's next Parse call.
type Document struct {
	json jsonIterator
}

func (d *Document) root() valueIterator {
	return valueIterator{json: &d.json, depth: 1, start: 0}
}

func (d *Document) rootValue() Value { return Value{iter: d.root()} }

// Rewind puts the cursor back at the root and clears a failure left by an
// earlier read. Byte slices returned by GetStringBytes become invalid.
func (d *Document) Rewind() {
	if d.json.token.tape == nil {
		return
	}
	d.json.rewind()
	d.json.strings = d.json.strings[:0]
}

// AtEnd reports whether the whole document has been consumed.
func (d *Document) AtEnd() bool {
	return d.json.token.tape == nil || d.json.token.atEnd()
}

// Value returns the root as a Value. Only objects and arrays can be treated
// as values; a scalar document is read with the Document getters.
func (d *Document) Value() (Value, error) {
	root := d.root()
	if err := root.check(); err != nil {
		return Value{}, err
	}
	switch root.startChar() {
	case '{', '[':
		return d.rootValue(), nil
	}
	return Value{}, errs.ScalarDocumentAsValue
}

func (d *Document) Type() (Type, error) { return d.root().typ() }
func (d *Document) GetObject() (Object, error) { return d.rootValue().GetObject() }
func (d *Document) GetArray() (Array, error) { return d.rootValue().GetArray() }
func (d *Document) GetString() (string, error) { return d.rootValue().GetString() }
func (d *Document) GetStringBytes() ([]byte, error) { return d.rootValue().GetStringBytes() }
func (d *Document) GetRawString() ([]byte, error) { return d.rootValue().GetRawString() }
func (d *Document) GetInt64() (int64, error) { return d.rootValue().GetInt64() }
func (d *Document) GetUint64() (uint64, error) { return d.rootValue().GetUint64() }
func (d *Document) GetFloat64() (float64, error) { return d.rootValue().GetFloat64() }
func (d *Document) GetNumber() (Number, error) { return d.rootValue().GetNumber() }
func (d *Document) GetBool() (bool, error) { return d.rootValue().GetBool() }
func (d *Document) IsNull() (bool, error) { return d.rootValue().IsNull() }
func (d *Document) Raw() ([]byte, error) { return d.rootValue().Raw() }
func (d *Document) Interface() (any, error) { return d.rootValue().Interface() }
func (d *Document) CountElements() (int, error) { return d.rootValue().CountElements() }
func (d *Document) CountFields() (int, error) { return d.rootValue().CountFields() }
func (d *Document) FindField(key string) Value { return d.rootValue().FindField(key) }
func (d *Document) FindFieldUnordered(key string) Value { return d.rootValue().FindFieldUnordered(key) }
func (d *Document) Get(key string) Value { return d.rootValue().Get(key) }
func (d *Document) At(i int) Value { return d.rootValue().At(i) }

// AtPointer rewinds the document and resolves an RFC 6901 pointer from the
// root. The empty pointer names the root itself.
func (d *Document) AtPointer(ptr string) Value {
	d.Rewind()
	if ptr == "" {
		v, err := d.Value()
		if err != nil {
			return Value{err: err}
		}
		return v
	}
	return d.rootValue().AtPointer(ptr)
}
