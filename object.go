package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// Object is an entered JSON object. Its fields are read in document order;
// see FindField and FindFieldUnordered for how lookups move the cursor.
type Object struct {
	iter valueIterator
}

// FindField returns the value of key, searching only the fields after the
// cursor. Looking up keys in document order is the fast path; a key that was
// already passed is reported as ErrNoSuchField.
func (o Object) FindField(key string) Value {
	if err := o.iter.check(); err != nil {
		return Value{err: err}
	}
	found, err := o.iter.findField(key)
	return o.result(found, err)
}

// FindFieldUnordered returns the value of key wherever it is. A miss costs a
// scan of the whole object.
func (o Object) FindFieldUnordered(key string) Value {
	if err := o.iter.check(); err != nil {
		return Value{err: err}
	}
	found, err := o.iter.findFieldUnordered(key)
	return o.result(found, err)
}

// Get is FindFieldUnordered.
func (o Object) Get(key string) Value { return o.FindFieldUnordered(key) }

func (o Object) result(found bool, err error) Value {
	switch {
	case err != nil:
		return Value{err: err}
	case !found:
		return Value{err: errs.NoSuchField}
	}
	return Value{iter: o.iter.child()}
}

// Reset moves the cursor back to the first field.
func (o Object) Reset() error { return o.iter.reset('}') }

func (o Object) IsEmpty() (bool, error) {
	if err := o.Reset(); err != nil {
		return false, err
	}
	return !o.iter.isOpen(), nil
}

// Iter returns an iterator over the fields, starting from the first one.
func (o Object) Iter() *ObjectIter {
	return &ObjectIter{obj: o.iter, err: o.Reset()}
}

// ForEach calls fn for every field in order and stops at the first error.
func (o Object) ForEach(fn func(Field) error) error {
	it := o.Iter()
	for it.Next() {
		if err := fn(it.Field()); err != nil {
			return err
		}
	}
	return it.Err()
}

// CountFields counts the fields and leaves the cursor on the first one.
func (o Object) CountFields() (int, error) {
	it := o.Iter()
	n := 0
	for it.Next() {
		n++
	}
	if err := it.Err(); err != nil {
		return 0, err
	}
	return n, o.Reset()
}

// Raw returns the JSON text of the whole object and consumes it.
func (o Object) Raw() ([]byte, error) { return o.iter.raw() }

// ObjectIter walks the fields of an Object.
//
//	it := obj.Iter()
//	for it.Next() {
//		f := it.Field()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type ObjectIter struct {
	obj   valueIterator
	field Field
	err   error

	started bool
	done    bool
}

func (it *ObjectIter) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	o := it.obj
	if err := o.check(); err != nil {
		it.err = err
		return false
	}
	if it.started {
		if err := o.json.skipChild(o.depth); err != nil {
			it.err = err
			return false
		}
		more, err := o.hasNextField()
		if err != nil || !more {
			it.err, it.done = err, true
			return false
		}
	} else {
		it.started = true
		if !o.isOpen() {
			it.done = true
			return false
		}
	}
	key, err := o.fieldKey()
	if err != nil {
		it.err = err
		return false
	}
	it.field = Field{key: key, value: Value{iter: o.child()}}
	return true
}

// Field returns the field Next moved to.
func (it *ObjectIter) Field() Field { return it.field }

func (it *ObjectIter) Err() error { return it.err }

// Field is one key/value pair of an Object.
type Field struct {
	key   []byte
	value Value
}

// Key returns the unescaped key.
func (f Field) Key() (string, error) {
	b, err := f.value.iter.json.unescape(f.key)
	return string(b), err
}

// RawKey returns the key as it appears in the input, escapes intact.
func (f Field) RawKey() []byte { return f.key }

func (f Field) Value() Value { return f.value }
