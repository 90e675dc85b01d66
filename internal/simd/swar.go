package simd

import "encoding/binary"

const (
	lsb  = 0x0101010101010101
	msb  = 0x8080808080808080
	low7 = 0x7F7F7F7F7F7F7F7F

	// gather moves bit 0 of every byte into the top byte, byte i landing on
	// bit 56+i.
	gather = 0x0102040810204080
)

func splat(b byte) uint64 { return lsb * uint64(b) }

// eqHigh sets the high bit of every byte where x and y are equal. It is exact:
// no borrow crosses byte boundaries.
func eqHigh(x, y uint64) uint64 {
	v := x ^ y
	return ^(((v & low7) + low7) | v | low7)
}

// controlHigh sets the high bit of every byte below 0x20.
func controlHigh(x uint64) uint64 {
	return ^((x | msb) - splat(0x20)) &^ x & msb
}

// packHigh collects the high bit of each byte into the low 8 bits.
func packHigh(x uint64) uint64 {
	return ((x >> 7) & lsb) * gather >> 56
}

func word(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// IndexQuoteOrBackslash returns the index of the first '"' or '\' in b, or -1.
func IndexQuoteOrBackslash(b []byte) int {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		w := word(b[i:])
		if m := eqHigh(w, splat('"')) | eqHigh(w, splat('\\')); m != 0 {
			return i + TrailingZeros(m)>>3
		}
	}
	for ; i < len(b); i++ {
		if b[i] == '"' || b[i] == '\\' {
			return i
		}
	}
	return -1
}

// IndexEscape returns the index of the first byte of s that cannot appear
// verbatim inside a JSON string, or -1.
func IndexEscape(s string) int {
	i := 0
	for ; i+8 <= len(s); i += 8 {
		w := uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
			uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
		if m := eqHigh(w, splat('"')) | eqHigh(w, splat('\\')) | controlHigh(w); m != 0 {
			return i + TrailingZeros(m)>>3
		}
	}
	for ; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c == '"' || c == '\\' {
			return i
		}
	}
	return -1
}

// ASCIIPrefix returns the length of the leading run of ASCII bytes in b.
func ASCIIPrefix(b []byte) int {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		if m := word(b[i:]) & msb; m != 0 {
			return i + TrailingZeros(m)>>3
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= 0x80 {
			return i
		}
	}
	return len(b)
}
