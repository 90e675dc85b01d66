// Package atom converts raw token bytes into Go values and back: string
// unescape and escape, number parsing and formatting, and literal checks.
package atom

import (
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/biggeezerdevelopment/lazyjson/internal/charclass"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
	"github.com/biggeezerdevelopment/lazyjson/internal/simd"
)

const hexDigits = "0123456789abcdef"

// StringEnd returns the index of the closing quote in b, where b starts just
// after an opening quote, or -1.
func StringEnd(b []byte) int {
	i := 0
	for {
		j := simd.IndexQuoteOrBackslash(b[i:])
		if j < 0 {
			return -1
		}
		i += j
		if b[i] == '"' {
			return i
		}
		i += 2
		if i > len(b) {
			return -1
		}
	}
}

// ValidString checks the escapes of a string body (quotes excluded).
func ValidString(b []byte) error {
	for i := 0; ; {
		j := simd.IndexQuoteOrBackslash(b[i:])
		if j < 0 {
			return nil
		}
		i += j
		if b[i] == '"' || i+1 >= len(b) {
			return errs.String
		}
		c := b[i+1]
		switch {
		case c == 'u':
			if _, ok := hex4(b[i+2:]); !ok {
				return errs.String
			}
			i += 6
		case charclass.Unescape[c] != 0:
			i += 2
		default:
			return errs.String
		}
	}
}

// HasEscape reports whether a raw string body contains a backslash.
func HasEscape(b []byte) bool {
	return simd.IndexQuoteOrBackslash(b) >= 0
}

// Unescape appends the decoded form of the string body src to dst.
// Invalid or unpaired surrogates decode to U+FFFD.
func Unescape(dst, src []byte) ([]byte, error) {
	for {
		j := simd.IndexQuoteOrBackslash(src)
		if j < 0 {
			return append(dst, src...), nil
		}
		dst = append(dst, src[:j]...)
		src = src[j:]
		if src[0] == '"' || len(src) < 2 {
			return dst, errs.String
		}

		c := src[1]
		if c != 'u' {
			r := charclass.Unescape[c]
			if r == 0 {
				return dst, errs.String
			}
			dst = append(dst, r)
			src = src[2:]
			continue
		}

		r, ok := hex4(src[2:])
		if !ok {
			return dst, errs.String
		}
		src = src[6:]
		switch {
		case r >= 0xD800 && r < 0xDC00:
			lo, ok := lowSurrogate(src)
			if !ok {
				r = utf8.RuneError
				break
			}
			r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
			src = src[6:]
		case r >= 0xDC00 && r < 0xE000:
			r = utf8.RuneError
		}
		dst = utf8.AppendRune(dst, r)
	}
}

func lowSurrogate(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	r, ok := hex4(b[2:])
	if !ok || r < 0xDC00 || r >= 0xE000 {
		return 0, false
	}
	return r, true
}

func hex4(b []byte) (rune, bool) {
	if len(b) < 4 {
		return 0, false
	}
	a, c, d, e := charclass.Hex[b[0]], charclass.Hex[b[1]], charclass.Hex[b[2]], charclass.Hex[b[3]]
	if a|c|d|e > 15 {
		return 0, false
	}
	return rune(a)<<12 | rune(c)<<8 | rune(d)<<4 | rune(e), true
}

// EqualRaw compares a raw string body without escapes to key.
func EqualRaw(raw []byte, key string) bool {
	return len(raw) == len(key) && UnsafeString(raw) == key
}

// AppendString appends s as a quoted JSON string. Invalid UTF-8 is replaced
// by U+FFFD so the output always parses.
func AppendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for len(s) > 0 {
		j := simd.IndexEscape(s)
		if j < 0 {
			j = len(s)
		}
		dst = appendUTF8(dst, s[:j])
		if j == len(s) {
			break
		}
		c := s[j]
		if e := charclass.Escape[c]; e != 'u' {
			dst = append(dst, '\\', e)
		} else {
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&15])
		}
		s = s[j+1:]
	}
	return append(dst, '"')
}

// appendUTF8 copies a run that needs no ASCII escapes. U+2028 and U+2029
// still go out as \u escapes, the way encoding/json writes them.
func appendUTF8(dst []byte, s string) []byte {
	if utf8.ValidString(s) && !strings.Contains(s, "\xe2\x80") {
		return append(dst, s...)
	}
	for _, r := range s {
		switch r {
		case '\u2028', '\u2029':
			dst = append(dst, '\\', 'u', '2', '0', '2', hexDigits[r&15])
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

// UnsafeString views b as a string without copying. b must not change while
// the string is in use.
func UnsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
