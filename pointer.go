package lazyjson

import (
	"strings"

	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

// AtPointer resolves an RFC 6901 pointer against the object. ptr must start
// with a slash.
func (o Object) AtPointer(ptr string) Value {
	seg, rest, ok := splitPointer(ptr)
	if !ok {
		return Value{err: errs.InvalidJSONPointer}
	}
	key, ok := unescapePointer(seg)
	if !ok {
		return Value{err: errs.InvalidJSONPointer}
	}
	child := o.FindFieldUnordered(key)
	if child.err != nil || rest == "" {
		return child
	}
	return child.AtPointer(rest)
}

// AtPointer resolves an RFC 6901 pointer against the array. "-" names the
// slot after the last element, which never holds a value.
func (a Array) AtPointer(ptr string) Value {
	seg, rest, ok := splitPointer(ptr)
	if !ok {
		return Value{err: errs.InvalidJSONPointer}
	}
	if seg == "-" {
		return Value{err: errs.OutOfBounds}
	}
	i, err := pointerIndex(seg)
	if err != nil {
		return Value{err: err}
	}
	child := a.At(i)
	if child.err != nil || rest == "" {
		return child
	}
	return child.AtPointer(rest)
}

// splitPointer takes the first reference token off ptr.
func splitPointer(ptr string) (seg, rest string, ok bool) {
	if ptr == "" || ptr[0] != '/' {
		return "", "", false
	}
	ptr = ptr[1:]
	if i := strings.IndexByte(ptr, '/'); i >= 0 {
		return ptr[:i], ptr[i:], true
	}
	return ptr, "", true
}

func unescapePointer(seg string) (string, bool) {
	if strings.IndexByte(seg, '~') < 0 {
		return seg, true
	}
	var sb strings.Builder
	sb.Grow(len(seg))
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if c != '~' {
			sb.WriteByte(c)
			continue
		}
		if i+1 == len(seg) {
			return "", false
		}
		i++
		switch seg[i] {
		case '0':
			sb.WriteByte('~')
		case '1':
			sb.WriteByte('/')
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// pointerIndex parses an array index token: decimal digits without leading
// zeros. A token that is not a number addresses an object, not an array.
func pointerIndex(seg string) (int, error) {
	if seg == "" {
		return 0, errs.InvalidJSONPointer
	}
	n := 0
	for i := 0; i < len(seg); i++ {
		d := seg[i] - '0'
		if d > 9 {
			return 0, errs.IncorrectType
		}
		if n > (maxIndex-int(d))/10 {
			return 0, errs.OutOfBounds
		}
		n = n*10 + int(d)
	}
	if len(seg) > 1 && seg[0] == '0' {
		return 0, errs.InvalidJSONPointer
	}
	return n, nil
}

const maxIndex = int(^uint(0) >> 1)
