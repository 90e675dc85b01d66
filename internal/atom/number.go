package atom

import (
	"math"
	"strconv"

	"github.com/biggeezerdevelopment/lazyjson/internal/charclass"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

type Kind uint8

const (
	KindInt Kind = iota + 1
	KindUint
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int64"
	case KindUint:
		return "uint64"
	case KindFloat:
		return "float64"
	}
	return "invalid"
}

// Number is a parsed JSON number in the narrowest Go type that holds it.
type Number struct {
	Kind  Kind
	Int   int64
	Uint  uint64
	Float float64
}

// Float64 converts the number to float64 whatever its kind.
func (n Number) Float64() float64 {
	switch n.Kind {
	case KindInt:
		return float64(n.Int)
	case KindUint:
		return float64(n.Uint)
	}
	return n.Float
}

var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11,
	1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

// scanNumber matches the JSON number grammar against a prefix of b and returns
// its length.
func scanNumber(b []byte) (n int, float bool, ok bool) {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}
	start := i
	for i < len(b) && charclass.IsDigit(b[i]) {
		i++
	}
	if i == start || (b[start] == '0' && i-start > 1) {
		return i, false, false
	}
	if i < len(b) && b[i] == '.' {
		float = true
		i++
		frac := i
		for i < len(b) && charclass.IsDigit(b[i]) {
			i++
		}
		if i == frac {
			return i, true, false
		}
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		float = true
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		exp := i
		for i < len(b) && charclass.IsDigit(b[i]) {
			i++
		}
		if i == exp {
			return i, true, false
		}
	}
	return i, float, true
}

func terminated(b []byte, n int) bool {
	return n == len(b) || charclass.Terminator[b[n]]
}

// ValidNumber reports whether b is exactly one JSON number.
func ValidNumber(b []byte) bool {
	n, _, ok := scanNumber(b)
	return ok && n == len(b)
}

// IsFloat reports whether the number starting at b has a fraction or an
// exponent.
func IsFloat(b []byte) bool {
	for _, c := range b {
		switch {
		case c == '.' || c == 'e' || c == 'E':
			return true
		case charclass.IsDigit(c) || c == '-' || c == '+':
		default:
			return false
		}
	}
	return false
}

// parseDigits accumulates the leading decimal digits of b.
func parseDigits(b []byte) (u uint64, n int, overflow bool) {
	for n < len(b) && charclass.IsDigit(b[n]) {
		d := uint64(b[n] - '0')
		if u > (math.MaxUint64-d)/10 {
			overflow = true
		}
		u = u*10 + d
		n++
	}
	return u, n, overflow
}

func parseInteger(b []byte) (u uint64, neg bool, err error) {
	i := 0
	if len(b) > 0 && b[0] == '-' {
		neg = true
		i = 1
	}
	u, n, overflow := parseDigits(b[i:])
	switch {
	case n == 0, n > 1 && b[i] == '0':
		return 0, neg, errs.Number
	}
	i += n
	if i < len(b) {
		switch c := b[i]; {
		case c == '.' || c == 'e' || c == 'E':
			return 0, neg, errs.IncorrectType
		case !charclass.Terminator[c]:
			return 0, neg, errs.Number
		}
	}
	if overflow {
		return 0, neg, errs.NumberOutOfRange
	}
	return u, neg, nil
}

// ParseInt parses the integer at the start of b.
func ParseInt(b []byte) (int64, error) {
	u, neg, err := parseInteger(b)
	if err != nil {
		return 0, err
	}
	if neg {
		if u > 1<<63 {
			return 0, errs.NumberOutOfRange
		}
		return -int64(u), nil
	}
	if u > math.MaxInt64 {
		return 0, errs.NumberOutOfRange
	}
	return int64(u), nil
}

// ParseUint parses the non-negative integer at the start of b.
func ParseUint(b []byte) (uint64, error) {
	u, neg, err := parseInteger(b)
	if err != nil {
		return 0, err
	}
	if neg && u != 0 {
		return 0, errs.NumberOutOfRange
	}
	return u, nil
}

// ParseFloat parses the number at the start of b as float64.
func ParseFloat(b []byte) (float64, error) {
	n, _, ok := scanNumber(b)
	if !ok || !terminated(b, n) {
		return 0, errs.Number
	}
	if f, ok := fastFloat(b[:n]); ok {
		return f, nil
	}
	f, err := strconv.ParseFloat(UnsafeString(b[:n]), 64)
	if err != nil {
		return 0, errs.NumberOutOfRange
	}
	return f, nil
}

// ParseNumber parses the number at the start of b into the narrowest kind:
// int64, then uint64, then float64.
func ParseNumber(b []byte) (Number, error) {
	n, float, ok := scanNumber(b)
	if !ok || !terminated(b, n) {
		return Number{}, errs.Number
	}
	if !float {
		if i, err := ParseInt(b); err == nil {
			return Number{Kind: KindInt, Int: i}, nil
		}
		if u, err := ParseUint(b); err == nil {
			return Number{Kind: KindUint, Uint: u}, nil
		}
	}
	f, err := ParseFloat(b)
	if err != nil {
		return Number{}, err
	}
	return Number{Kind: KindFloat, Float: f}, nil
}

// fastFloat handles numbers whose decimal mantissa fits in 53 bits and whose
// power of ten is exact, where one multiply or divide rounds correctly.
func fastFloat(s []byte) (float64, bool) {
	i := 0
	neg := s[0] == '-'
	if neg {
		i++
	}

	var mant uint64
	nd, exp10 := 0, 0
	for ; i < len(s) && charclass.IsDigit(s[i]); i++ {
		d := uint64(s[i] - '0')
		if mant == 0 && d == 0 {
			continue
		}
		if nd == 19 {
			return 0, false
		}
		mant = mant*10 + d
		nd++
	}
	if i < len(s) && s[i] == '.' {
		for i++; i < len(s) && charclass.IsDigit(s[i]); i++ {
			d := uint64(s[i] - '0')
			exp10--
			if mant == 0 && d == 0 {
				continue
			}
			if nd == 19 {
				return 0, false
			}
			mant = mant*10 + d
			nd++
		}
	}
	if i < len(s) {
		// exponent
		i++
		eneg := false
		if s[i] == '+' || s[i] == '-' {
			eneg = s[i] == '-'
			i++
		}
		if len(s)-i > 4 {
			return 0, false
		}
		e := 0
		for ; i < len(s); i++ {
			e = e*10 + int(s[i]-'0')
		}
		if eneg {
			e = -e
		}
		exp10 += e
	}

	if mant == 0 {
		if neg {
			return math.Copysign(0, -1), true
		}
		return 0, true
	}
	if mant > 1<<53 || exp10 < -22 || exp10 > 22 {
		return 0, false
	}
	f := float64(mant)
	if exp10 < 0 {
		f /= pow10[-exp10]
	} else {
		f *= pow10[exp10]
	}
	if neg {
		f = -f
	}
	return f, true
}

// AppendFloat formats f the way encoding/json does: shortest representation,
// exponent form outside [1e-6, 1e21).
func AppendFloat(dst []byte, f float64, bits int) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return dst, errs.UnsupportedValue
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}
