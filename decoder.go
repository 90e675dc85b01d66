package lazyjson

import (
	"encoding"
	"encoding/base64"
	"reflect"
	"strconv"

	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
	"github.com/biggeezerdevelopment/lazyjson/internal/structinfo"
)

// Unmarshaler is implemented by types that decode themselves from raw JSON.
// It has the same shape as encoding/json's, so existing implementations work.
type Unmarshaler interface {
	UnmarshalJSON([]byte) error
}

var (
	rawMessageType      = reflect.TypeFor[RawMessage]()
	numberType          = reflect.TypeFor[Number]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Decode reads the whole document into v, which must be a non-nil pointer.
func (d *Document) Decode(v any) error {
	return decodeInto(d.root(), v)
}

// Decode reads v into dst, which must be a non-nil pointer.
func (v Value) Decode(dst any) error {
	if v.err != nil {
		return v.err
	}
	return decodeInto(v.iter, dst)
}

func decodeInto(v valueIterator, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &Error{Op: "decode", Err: errs.UnsupportedType}
	}
	return v.decode(rv.Elem())
}

// decode drives the cursor over v and stores what it reads in dst.
func (v valueIterator) decode(dst reflect.Value) error {
	if p := v.json.parser; p != nil && v.depth > p.maxDepth+1 {
		return v.json.fail(errs.Depth)
	}
	null, err := v.isNull()
	if err != nil {
		return err
	}
	if null {
		return decodeNull(dst)
	}

	u, tu, dst := indirect(dst)
	if u != nil {
		raw, err := v.raw()
		if err != nil {
			return err
		}
		return u.UnmarshalJSON(raw)
	}
	if tu != nil && v.startChar() == '"' {
		b, err := v.stringBytes()
		if err != nil {
			return err
		}
		return tu.UnmarshalText(b)
	}

	t := dst.Type()
	switch dst.Kind() {
	case reflect.Bool:
		b, err := v.getBool()
		if err != nil {
			return typeError(t, err)
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := v.getInt64()
		if err != nil {
			return typeError(t, err)
		}
		if dst.OverflowInt(n) {
			return typeError(t, errs.NumberOutOfRange)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := v.getUint64()
		if err != nil {
			return typeError(t, err)
		}
		if dst.OverflowUint(n) {
			return typeError(t, errs.NumberOutOfRange)
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := v.getFloat64()
		if err != nil {
			return typeError(t, err)
		}
		if dst.OverflowFloat(f) {
			return typeError(t, errs.NumberOutOfRange)
		}
		dst.SetFloat(f)
	case reflect.String:
		b, err := v.stringBytes()
		if err != nil {
			return typeError(t, err)
		}
		dst.SetString(string(b))
	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return typeError(t, errs.UnsupportedType)
		}
		val, err := v.materialize()
		if err != nil {
			return err
		}
		if val == nil {
			dst.SetZero()
			return nil
		}
		dst.Set(reflect.ValueOf(val))
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && t != rawMessageType {
			return v.decodeBytes(dst)
		}
		return v.decodeSlice(dst)
	case reflect.Array:
		return v.decodeArray(dst)
	case reflect.Map:
		return v.decodeMap(dst)
	case reflect.Struct:
		if t == numberType {
			n, err := v.getNumber()
			if err != nil {
				return typeError(t, err)
			}
			dst.Set(reflect.ValueOf(n))
			return nil
		}
		return v.decodeStruct(dst)
	default:
		return typeError(t, errs.UnsupportedType)
	}
	return nil
}

// decodeNull leaves everything but pointers, maps, slices and interfaces
// untouched, the way encoding/json does.
func decodeNull(dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		dst.SetZero()
		return nil
	}
	if dst.CanAddr() {
		if u, ok := dst.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalJSON([]byte("null"))
		}
	}
	return nil
}

// indirect walks down pointers, allocating as it goes, and stops early at a
// value that decodes itself.
func indirect(v reflect.Value) (Unmarshaler, encoding.TextUnmarshaler, reflect.Value) {
	for {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			if u, ok := v.Interface().(Unmarshaler); ok {
				return u, nil, v.Elem()
			}
			if tu, ok := v.Interface().(encoding.TextUnmarshaler); ok {
				return nil, tu, v.Elem()
			}
			v = v.Elem()
			continue
		}
		if v.Kind() != reflect.Interface && v.CanAddr() && v.Addr().CanInterface() {
			switch p := v.Addr().Interface().(type) {
			case Unmarshaler:
				return p, nil, v
			case encoding.TextUnmarshaler:
				return nil, p, v
			}
		}
		return nil, nil, v
	}
}

func typeError(t reflect.Type, err error) error {
	if code, ok := err.(errs.Code); ok && code.Local() || err == errs.UnsupportedType {
		return &Error{Op: "decode " + t.String(), Err: err}
	}
	return err
}

func (v valueIterator) decodeBytes(dst reflect.Value) error {
	if v.startChar() == '[' {
		return v.decodeSlice(dst)
	}
	b, err := v.rawString()
	if err != nil {
		return typeError(dst.Type(), err)
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(b)))
	n, err := base64.StdEncoding.Decode(out, b)
	if err != nil {
		return &Error{Op: "decode " + dst.Type().String(), Err: err}
	}
	dst.SetBytes(out[:n])
	return nil
}

func (v valueIterator) decodeSlice(dst reflect.Value) error {
	if err := v.enter('[', ']'); err != nil {
		return typeError(dst.Type(), err)
	}
	n := 0
	err := v.eachElement(func(child valueIterator) error {
		if n >= dst.Cap() {
			dst.Grow(max(4, n))
		}
		if n >= dst.Len() {
			dst.SetLen(n + 1)
		}
		elem := dst.Index(n)
		elem.SetZero()
		n++
		return child.decode(elem)
	})
	if err != nil {
		return err
	}
	if n == 0 && dst.IsNil() {
		dst.Set(reflect.MakeSlice(dst.Type(), 0, 0))
		return nil
	}
	dst.SetLen(n)
	return nil
}

func (v valueIterator) decodeArray(dst reflect.Value) error {
	if err := v.enter('[', ']'); err != nil {
		return typeError(dst.Type(), err)
	}
	n := 0
	err := v.eachElement(func(child valueIterator) error {
		if n >= dst.Len() {
			return child.skip()
		}
		n++
		return child.decode(dst.Index(n - 1))
	})
	if err != nil {
		return err
	}
	for ; n < dst.Len(); n++ {
		dst.Index(n).SetZero()
	}
	return nil
}

func (v valueIterator) decodeMap(dst reflect.Value) error {
	t := dst.Type()
	kt := t.Key()
	textKey := reflect.PointerTo(kt).Implements(textUnmarshalerType)
	switch kt.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
	default:
		if !textKey {
			return typeError(t, errs.UnsupportedType)
		}
	}
	if err := v.enter('{', '}'); err != nil {
		return typeError(t, err)
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(t))
	}

	elem := reflect.New(t.Elem()).Elem()
	return v.eachField(func(raw []byte, child valueIterator) error {
		name, err := v.json.unescape(raw)
		if err != nil {
			return err
		}
		key := reflect.New(kt).Elem()
		switch {
		case textKey:
			if err := key.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText(name); err != nil {
				return &Error{Op: "decode " + kt.String(), Err: err}
			}
		case kt.Kind() == reflect.String:
			key.SetString(string(name))
		case key.CanInt():
			n, err := strconv.ParseInt(atom.UnsafeString(name), 10, 64)
			if err != nil || key.OverflowInt(n) {
				return typeError(kt, errs.NumberOutOfRange)
			}
			key.SetInt(n)
		default:
			n, err := strconv.ParseUint(atom.UnsafeString(name), 10, 64)
			if err != nil || key.OverflowUint(n) {
				return typeError(kt, errs.NumberOutOfRange)
			}
			key.SetUint(n)
		}

		elem.SetZero()
		if err := child.decode(elem); err != nil {
			return err
		}
		dst.SetMapIndex(key, elem)
		return nil
	})
}

func (v valueIterator) decodeStruct(dst reflect.Value) error {
	t := dst.Type()
	if err := v.enter('{', '}'); err != nil {
		return typeError(t, err)
	}
	info := structinfo.Of(t)
	next := 0
	return v.eachField(func(raw []byte, child valueIterator) error {
		name, err := v.json.unescape(raw)
		if err != nil {
			return err
		}
		i := info.Lookup(name, next)
		if i < 0 {
			// unknown keys are skipped by eachField
			return nil
		}
		next = i + 1
		f := &info.Fields[i]
		fv, err := fieldByIndex(dst, f.Index)
		if err != nil {
			return err
		}
		if f.Quoted {
			return child.decodeQuoted(fv)
		}
		return child.decode(fv)
	})
}

// fieldByIndex is reflect.Value.FieldByIndex that allocates nil embedded
// pointers on the way.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, &Error{Op: "decode " + v.Type().String(), Err: errs.UnsupportedType}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}

// decodeQuoted handles fields tagged ",string", whose scalar value is
// wrapped in a JSON string.
func (v valueIterator) decodeQuoted(dst reflect.Value) error {
	null, err := v.isNull()
	if err != nil {
		return err
	}
	if null {
		if dst.Kind() == reflect.Pointer {
			dst.SetZero()
		}
		return nil
	}
	s, err := v.stringBytes()
	if err != nil {
		return typeError(dst.Type(), err)
	}
	for dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}
	if dst.Kind() == reflect.String {
		// The payload is itself a JSON string literal.
		if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
			return typeError(dst.Type(), errs.IncorrectType)
		}
		inner, err := atom.Unescape(nil, s[1:len(s)-1])
		if err != nil {
			return typeError(dst.Type(), errs.IncorrectType)
		}
		dst.SetString(string(inner))
		return nil
	}

	if dst.Kind() == reflect.Bool {
		switch string(s) {
		case "true":
			dst.SetBool(true)
		case "false":
			dst.SetBool(false)
		default:
			return typeError(dst.Type(), errs.IncorrectType)
		}
		return nil
	}
	if !atom.ValidNumber(s) {
		return typeError(dst.Type(), errs.IncorrectType)
	}

	// The atom parsers expect a terminator after the literal.
	var buf [64]byte
	b := append(append(buf[:0], s...), ' ')
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := atom.ParseInt(b)
		if err != nil || dst.OverflowInt(n) {
			return typeError(dst.Type(), errs.IncorrectType)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := atom.ParseUint(b)
		if err != nil || dst.OverflowUint(n) {
			return typeError(dst.Type(), errs.IncorrectType)
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := atom.ParseFloat(b)
		if err != nil || dst.OverflowFloat(f) {
			return typeError(dst.Type(), errs.IncorrectType)
		}
		dst.SetFloat(f)
	default:
		return typeError(dst.Type(), errs.UnsupportedType)
	}
	return nil
}
