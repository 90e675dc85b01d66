package lazyjson

import (
	"cmp"
	"encoding"
	"encoding/base64"
	"reflect"
	"slices"
	"strconv"
	"sync"

	"github.com/valyala/bytebufferpool"

	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
	"github.com/biggeezerdevelopment/lazyjson/internal/structinfo"
)

// Marshaler is implemented by types that encode themselves as JSON. It has
// the same shape as encoding/json's.
type Marshaler interface {
	MarshalJSON() ([]byte, error)
}

// RawMessage is encoded JSON kept as is. It delays decoding, or embeds
// precomputed JSON when encoding.
type RawMessage []byte

func (m RawMessage) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *RawMessage) UnmarshalJSON(data []byte) error {
	if m == nil {
		return &Error{Op: "RawMessage", Err: errs.Uninitialized}
	}
	*m = append((*m)[:0], data...)
	return nil
}

// defaultMaxEncodeDepth stops the encoder from following pointer cycles
// forever.
const defaultMaxEncodeDepth = 1000

type encoder struct {
	buf      []byte
	depth    int
	maxDepth int
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &encoder{maxDepth: defaultMaxEncodeDepth}
	},
}

func newEncoder(dst []byte) *encoder {
	e := encoderPool.Get().(*encoder)
	e.buf = dst
	e.depth = 0
	e.maxDepth = defaultMaxEncodeDepth
	return e
}

func (e *encoder) release() {
	e.buf = nil
	encoderPool.Put(e)
}

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	out, err := MarshalAppend(bb.B[:0], v)
	bb.B = out
	if err != nil {
		return nil, err
	}
	return slices.Clone(out), nil
}

// MarshalAppend appends the JSON encoding of v to dst.
func MarshalAppend(dst []byte, v any) ([]byte, error) {
	return marshalAppend(dst, v, defaultMaxEncodeDepth)
}

func marshalAppend(dst []byte, v any, maxDepth int) ([]byte, error) {
	e := newEncoder(dst)
	defer e.release()
	e.maxDepth = maxDepth

	if err := e.encode(reflect.ValueOf(v)); err != nil {
		return dst, err
	}
	return e.buf, nil
}

var (
	marshalerType     = reflect.TypeFor[Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

func (e *encoder) encode(v reflect.Value) error {
	if !v.IsValid() {
		e.buf = append(e.buf, "null"...)
		return nil
	}

	t := v.Type()
	if t.Implements(marshalerType) {
		return e.encodeMarshaler(v)
	}
	if t.Kind() != reflect.Pointer && v.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return e.encodeMarshaler(v.Addr())
	}
	if t.Implements(textMarshalerType) {
		return e.encodeText(v)
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			e.buf = append(e.buf, "true"...)
		} else {
			e.buf = append(e.buf, "false"...)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf = strconv.AppendInt(e.buf, v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf = strconv.AppendUint(e.buf, v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		out, err := atom.AppendFloat(e.buf, v.Float(), t.Bits())
		if err != nil {
			return &Error{Op: "encode " + t.String(), Err: err}
		}
		e.buf = out
	case reflect.String:
		e.buf = atom.AppendString(e.buf, v.String())
	case reflect.Slice:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		if t.Elem().Kind() == reflect.Uint8 && !reflect.PointerTo(t.Elem()).Implements(marshalerType) {
			e.encodeBytes(v.Bytes())
			return nil
		}
		return e.encodeArray(v)
	case reflect.Array:
		return e.encodeArray(v)
	case reflect.Map:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.encodeMap(v)
	case reflect.Struct:
		if t == numberType {
			return e.encodeNumber(v.Interface().(Number))
		}
		return e.encodeStruct(v)
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		if err := e.descend(t); err != nil {
			return err
		}
		err := e.encode(v.Elem())
		e.depth--
		return err
	default:
		return &Error{Op: "encode " + t.String(), Err: errs.UnsupportedType}
	}
	return nil
}

func (e *encoder) descend(t reflect.Type) error {
	e.depth++
	if e.depth > e.maxDepth {
		e.depth--
		return &Error{Op: "encode " + t.String(), Err: errs.Depth}
	}
	return nil
}

func (e *encoder) encodeMarshaler(v reflect.Value) error {
	if isNilRef(v) {
		e.buf = append(e.buf, "null"...)
		return nil
	}
	b, err := v.Interface().(Marshaler).MarshalJSON()
	if err != nil {
		return &Error{Op: "encode " + v.Type().String(), Err: err}
	}
	// Compact and validate what the method produced.
	out, err := minifyAppend(e.buf, b)
	if err != nil {
		return &Error{Op: "encode " + v.Type().String(), Err: err}
	}
	e.buf = out
	return nil
}

func (e *encoder) encodeText(v reflect.Value) error {
	if isNilRef(v) {
		e.buf = append(e.buf, "null"...)
		return nil
	}
	b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return &Error{Op: "encode " + v.Type().String(), Err: err}
	}
	e.buf = atom.AppendString(e.buf, atom.UnsafeString(b))
	return nil
}

// isNilRef reports a nil pointer, or a nil value held by an interface-typed
// field; neither has a method to call.
func isNilRef(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (e *encoder) encodeNumber(n Number) error {
	switch n.Kind {
	case KindInt64:
		e.buf = strconv.AppendInt(e.buf, n.Int, 10)
	case KindUint64:
		e.buf = strconv.AppendUint(e.buf, n.Uint, 10)
	default:
		out, err := atom.AppendFloat(e.buf, n.Float, 64)
		if err != nil {
			return &Error{Op: "encode Number", Err: err}
		}
		e.buf = out
	}
	return nil
}

func (e *encoder) encodeBytes(b []byte) {
	e.buf = append(e.buf, '"')
	n := len(e.buf)
	e.buf = slices.Grow(e.buf, base64.StdEncoding.EncodedLen(len(b)))
	e.buf = e.buf[:n+base64.StdEncoding.EncodedLen(len(b))]
	base64.StdEncoding.Encode(e.buf[n:], b)
	e.buf = append(e.buf, '"')
}

func (e *encoder) encodeArray(v reflect.Value) error {
	if err := e.descend(v.Type()); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	e.buf = append(e.buf, '[')
	n := v.Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		if err := e.encode(v.Index(i)); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, ']')
	return nil
}

type mapEntry struct {
	key string
	val reflect.Value
}

func (e *encoder) encodeMap(v reflect.Value) error {
	t := v.Type()
	kt := t.Key()
	if kt.Kind() != reflect.String && !kt.Implements(textMarshalerType) {
		switch kt.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		default:
			return &Error{Op: "encode " + t.String(), Err: errs.UnsupportedType}
		}
	}
	if err := e.descend(t); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := mapKey(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, mapEntry{key: k, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int { return cmp.Compare(a.key, b.key) })

	e.buf = append(e.buf, '{')
	for i, entry := range entries {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.buf = atom.AppendString(e.buf, entry.key)
		e.buf = append(e.buf, ':')
		if err := e.encode(entry.val); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if isNilRef(k) {
		return "", nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return "", &Error{Op: "encode " + k.Type().String(), Err: err}
		}
		return string(b), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	}
	return strconv.FormatUint(k.Uint(), 10), nil
}

func (e *encoder) encodeStruct(v reflect.Value) error {
	if err := e.descend(v.Type()); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	e.buf = append(e.buf, '{')
	first := true
	info := structinfo.Of(v.Type())
	for i := range info.Fields {
		f := &info.Fields[i]
		fv, ok := fieldValue(v, f.Index)
		if !ok {
			continue
		}
		if f.OmitEmpty && isEmptyValue(fv) {
			continue
		}

		if !first {
			e.buf = append(e.buf, ',')
		}
		first = false
		e.buf = append(e.buf, f.Key...)

		if f.Quoted {
			if err := e.encodeQuoted(fv); err != nil {
				return err
			}
			continue
		}
		if err := e.encode(fv); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

// fieldValue follows a promoted field's index path; a nil embedded pointer
// on the way hides the field.
func fieldValue(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// encodeQuoted writes a ",string" field: its scalar encoding inside a JSON
// string.
func (e *encoder) encodeQuoted(v reflect.Value) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		var scratch [64]byte
		quoted := atom.AppendString(scratch[:0], v.String())
		e.buf = atom.AppendString(e.buf, atom.UnsafeString(quoted))
		return nil
	}
	e.buf = append(e.buf, '"')
	if err := e.encode(v); err != nil {
		return err
	}
	e.buf = append(e.buf, '"')
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
