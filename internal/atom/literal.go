package atom

import (
	"encoding/binary"

	"github.com/biggeezerdevelopment/lazyjson/internal/charclass"
)

var (
	trueWord  = binary.LittleEndian.Uint32([]byte("true"))
	nullWord  = binary.LittleEndian.Uint32([]byte("null"))
	falseWord = binary.LittleEndian.Uint32([]byte("alse"))
)

// IsTrue, IsFalse and IsNull compare the literal with one fixed-width load
// and check that the literal is not followed by more atom bytes.
func IsTrue(b []byte) bool {
	return len(b) >= 4 && binary.LittleEndian.Uint32(b) == trueWord && terminated(b, 4)
}

func IsFalse(b []byte) bool {
	return len(b) >= 5 && b[0] == 'f' && binary.LittleEndian.Uint32(b[1:]) == falseWord && terminated(b, 5)
}

func IsNull(b []byte) bool {
	return len(b) >= 4 && binary.LittleEndian.Uint32(b) == nullWord && terminated(b, 4)
}

// TrimSpace drops trailing JSON whitespace.
func TrimSpace(b []byte) []byte {
	for len(b) > 0 && charclass.IsSpace[b[len(b)-1]] {
		b = b[:len(b)-1]
	}
	return b
}
