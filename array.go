package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// Array is an entered JSON array. Iteration is single pass; Iter, At and
// CountElements all start over from the first element.
type Array struct {
	iter valueIterator
}

// Reset moves the cursor back to the first element.
func (a Array) Reset() error { return a.iter.reset(']') }

func (a Array) IsEmpty() (bool, error) {
	if err := a.Reset(); err != nil {
		return false, err
	}
	return !a.iter.isOpen(), nil
}

// Iter returns an iterator over the elements, starting from the first one.
func (a Array) Iter() *ArrayIter {
	return &ArrayIter{arr: a.iter, err: a.Reset()}
}

// ForEach calls fn for every element in order and stops at the first error.
func (a Array) ForEach(fn func(Value) error) error {
	it := a.Iter()
	for it.Next() {
		if err := fn(it.Value()); err != nil {
			return err
		}
	}
	return it.Err()
}

// At returns element i. It walks the array from the start.
func (a Array) At(i int) Value {
	if i < 0 {
		return Value{err: errs.OutOfBounds}
	}
	it := a.Iter()
	for n := 0; it.Next(); n++ {
		if n == i {
			return it.Value()
		}
	}
	if err := it.Err(); err != nil {
		return Value{err: err}
	}
	return Value{err: errs.OutOfBounds}
}

// CountElements counts the elements and leaves the cursor on the first one.
func (a Array) CountElements() (int, error) {
	it := a.Iter()
	n := 0
	for it.Next() {
		n++
	}
	if err := it.Err(); err != nil {
		return 0, err
	}
	return n, a.Reset()
}

// Raw returns the JSON text of the whole array and consumes it.
func (a Array) Raw() ([]byte, error) { return a.iter.raw() }

// ArrayIter walks the elements of an Array.
type ArrayIter struct {
	arr   valueIterator
	value Value
	err   error

	started bool
	done    bool
}

func (it *ArrayIter) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	a := it.arr
	if err := a.check(); err != nil {
		it.err = err
		return false
	}
	if it.started {
		if err := a.json.skipChild(a.depth); err != nil {
			it.err = err
			return false
		}
		more, err := a.hasNextElement()
		if err != nil || !more {
			it.err, it.done = err, true
			return false
		}
	} else {
		it.started = true
		if !a.isOpen() {
			it.done = true
			return false
		}
	}
	it.value = Value{iter: a.child()}
	return true
}

// Value returns the element Next moved to.
func (it *ArrayIter) Value() Value { return it.value }

func (it *ArrayIter) Err() error { return it.err }
