package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// Value is a JSON value that has not been read yet. Lookups on a Value
// return another Value carrying the first error met on the way, so a chain
// like doc.Get("a").At(0).Get("b") needs a single check at the getter that
// ends it.
//
// A Value is only usable while it is the most recent value taken at its
// depth; moving on to a sibling makes it stale and using it then fails with
// ErrOutOfOrderIteration.
type Value struct {
	iter valueIterator
	err  error
}

// Err returns the error carried by v, if any.
func (v Value) Err() error { return v.err }

func (v Value) Type() (Type, error) {
	if v.err != nil {
		return TypeInvalid, v.err
	}
	return v.iter.typ()
}

func (v Value) GetObject() (Object, error) {
	if v.err != nil {
		return Object{}, v.err
	}
	if err := v.iter.enter('{', '}'); err != nil {
		return Object{}, err
	}
	return Object{iter: v.iter}, nil
}

func (v Value) GetArray() (Array, error) {
	if v.err != nil {
		return Array{}, v.err
	}
	if err := v.iter.enter('[', ']'); err != nil {
		return Array{}, err
	}
	return Array{iter: v.iter}, nil
}

// GetString returns a copy of the unescaped string.
func (v Value) GetString() (string, error) {
	b, err := v.GetStringBytes()
	return string(b), err
}

// GetStringBytes returns the unescaped string without copying it. The bytes
// belong to the Document and stay valid until the next Parse or Rewind.
func (v Value) GetStringBytes() ([]byte, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.iter.stringBytes()
}

// GetRawString returns the string between its quotes with escapes intact.
func (v Value) GetRawString() ([]byte, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.iter.rawString()
}

func (v Value) GetInt64() (int64, error) {
	if v.err != nil {
		return 0, v.err
	}
	return v.iter.getInt64()
}

func (v Value) GetUint64() (uint64, error) {
	if v.err != nil {
		return 0, v.err
	}
	return v.iter.getUint64()
}

func (v Value) GetFloat64() (float64, error) {
	if v.err != nil {
		return 0, v.err
	}
	return v.iter.getFloat64()
}

func (v Value) GetNumber() (Number, error) {
	if v.err != nil {
		return Number{}, v.err
	}
	return v.iter.getNumber()
}

func (v Value) GetBool() (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	return v.iter.getBool()
}

// IsNull reports whether v is null, consuming it if so.
func (v Value) IsNull() (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	return v.iter.isNull()
}

// Raw returns the JSON text of v and consumes it.
func (v Value) Raw() ([]byte, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.iter.raw()
}

// Skip consumes v without reading it.
func (v Value) Skip() error {
	if v.err != nil {
		return v.err
	}
	return v.iter.skip()
}

// FindField looks for key among the fields after the cursor.
func (v Value) FindField(key string) Value {
	o, err := v.GetObject()
	if err != nil {
		return Value{err: err}
	}
	return o.FindField(key)
}

// FindFieldUnordered looks for key anywhere in the object.
func (v Value) FindFieldUnordered(key string) Value {
	o, err := v.GetObject()
	if err != nil {
		return Value{err: err}
	}
	return o.FindFieldUnordered(key)
}

// Get is FindFieldUnordered.
func (v Value) Get(key string) Value { return v.FindFieldUnordered(key) }

// At returns element i of an array.
func (v Value) At(i int) Value {
	a, err := v.GetArray()
	if err != nil {
		return Value{err: err}
	}
	return a.At(i)
}

// AtPointer resolves an RFC 6901 pointer relative to v.
func (v Value) AtPointer(ptr string) Value {
	if v.err != nil || ptr == "" {
		return v
	}
	t, err := v.Type()
	if err != nil {
		return Value{err: err}
	}
	switch t {
	case TypeObject:
		o, err := v.GetObject()
		if err != nil {
			return Value{err: err}
		}
		return o.AtPointer(ptr)
	case TypeArray:
		a, err := v.GetArray()
		if err != nil {
			return Value{err: err}
		}
		return a.AtPointer(ptr)
	}
	return Value{err: errs.InvalidJSONPointer}
}

func (v Value) CountElements() (int, error) {
	a, err := v.GetArray()
	if err != nil {
		return 0, err
	}
	return a.CountElements()
}

func (v Value) CountFields() (int, error) {
	o, err := v.GetObject()
	if err != nil {
		return 0, err
	}
	return o.CountFields()
}

// Interface reads v into the types encoding/json uses for an interface{}:
// map[string]any, []any, string, float64, bool and nil.
func (v Value) Interface() (any, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.iter.materialize()
}

func (v valueIterator) materialize() (any, error) {
	t, err := v.typ()
	if err != nil {
		return nil, err
	}
	switch t {
	case TypeObject:
		if err := v.enter('{', '}'); err != nil {
			return nil, err
		}
		m := make(map[string]any)
		err := v.eachField(func(key []byte, child valueIterator) error {
			k, err := v.json.unescape(key)
			if err != nil {
				return err
			}
			val, err := child.materialize()
			if err != nil {
				return err
			}
			m[string(k)] = val
			return nil
		})
		return m, err
	case TypeArray:
		if err := v.enter('[', ']'); err != nil {
			return nil, err
		}
		s := make([]any, 0)
		err := v.eachElement(func(child valueIterator) error {
			val, err := child.materialize()
			if err != nil {
				return err
			}
			s = append(s, val)
			return nil
		})
		return s, err
	case TypeString:
		b, err := v.stringBytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case TypeNumber:
		return v.getFloat64()
	case TypeBool:
		return v.getBool()
	}
	_, err = v.isNull()
	return nil, err
}
