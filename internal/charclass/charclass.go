// Package charclass holds the static byte lookup tables shared by the
// vector kernels, the scalar fallback, the string codec and the number
// parser. Every table is filled once at init and is read-only afterwards.
package charclass

// Character classes for parallel classification
const (
	Structural = 0x01 // {}[]:,
	Whitespace = 0x02 // space, tab, newline, carriage return
	Quote      = 0x04 // "
	Backslash  = 0x08 // \
	Digit      = 0x10 // 0-9
	Sign       = 0x20 // +, -
	Alpha      = 0x40 // a-z, A-Z
	Other      = 0x80 // everything else
)

// OpNibble is indexed by the low nibble of a byte. A byte b below 0x80 is an
// operator when OpNibble[b&15] == b|0x20, which folds '[' onto '{' and ']'
// onto '}'. The rule also accepts 0x0C and 0x1A; both are invalid outside
// strings and are rejected by tape validation.
var OpNibble = [16]byte{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, ':', '{', ',', '}', 0, 0,
}

// WhitespaceNibble is indexed by the low nibble of a byte and compared with
// the byte itself. Filler entries can never match their own nibble.
var WhitespaceNibble = [16]byte{
	' ', 0x64, 0x64, 0x64, 0x11, 0x64, 0x71, 0x02,
	0x64, '\t', '\n', 0x70, 0x64, '\r', 0x64, 0x64,
}

var (
	// Class maps each byte to one of the character classes above.
	Class [256]uint8

	// IsOp and IsSpace are the scalar projections of the nibble rules.
	IsOp    [256]bool
	IsSpace [256]bool

	// Unescape maps the byte after a backslash to the byte it stands for.
	// Zero marks an invalid escape; 'u' is handled separately.
	Unescape [256]byte

	// Escape maps a byte that must be escaped in output to the letter of its
	// short escape, or to 'u' when it needs the \u00XX form. Zero means the
	// byte is copied verbatim.
	Escape [256]byte

	// Hex maps an ASCII hex digit to its value; 0xFF for anything else.
	Hex [256]byte

	// Terminator marks the bytes allowed right after an atom.
	Terminator [256]bool
)

func init() {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if b < 0x80 && OpNibble[b&15] == b|0x20 {
			IsOp[b] = true
		}
		if WhitespaceNibble[b&15] == b {
			IsSpace[b] = true
		}
		Class[b] = classify(b)
		Hex[b] = 0xFF
		if b < 0x20 {
			Escape[b] = 'u'
		}
	}

	for _, c := range "{}[],:" {
		Terminator[c] = true
	}
	for _, c := range " \t\n\r" {
		Terminator[c] = true
	}

	for i := byte(0); i < 10; i++ {
		Hex['0'+i] = i
	}
	for i := byte(0); i < 6; i++ {
		Hex['a'+i] = 10 + i
		Hex['A'+i] = 10 + i
	}

	Unescape['"'] = '"'
	Unescape['\\'] = '\\'
	Unescape['/'] = '/'
	Unescape['b'] = '\b'
	Unescape['f'] = '\f'
	Unescape['n'] = '\n'
	Unescape['r'] = '\r'
	Unescape['t'] = '\t'

	Escape['"'] = '"'
	Escape['\\'] = '\\'
	Escape['\b'] = 'b'
	Escape['\f'] = 'f'
	Escape['\n'] = 'n'
	Escape['\r'] = 'r'
	Escape['\t'] = 't'
}

func classify(b byte) uint8 {
	switch {
	case b == '{' || b == '}' || b == '[' || b == ']' || b == ',' || b == ':':
		return Structural
	case b == ' ' || b == '\t' || b == '\n' || b == '\r':
		return Whitespace
	case b == '"':
		return Quote
	case b == '\\':
		return Backslash
	case b >= '0' && b <= '9':
		return Digit
	case b == '+' || b == '-':
		return Sign
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return Alpha
	}
	return Other
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool { return Class[b] == Digit }
