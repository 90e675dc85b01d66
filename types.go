package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
)

// Type is the JSON type of a value, decided by its first byte.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeObject
	TypeArray
	TypeString
	TypeNumber
	TypeBool
	TypeNull
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeObject:  "object",
	TypeArray:   "array",
	TypeString:  "string",
	TypeNumber:  "number",
	TypeBool:    "bool",
	TypeNull:    "null",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Number is a parsed JSON number held in the narrowest of int64, uint64 and
// float64 that represents it.
type Number = atom.Number

// NumberKind tells which field of a Number is set.
type NumberKind = atom.Kind

const (
	KindInt64   = atom.KindInt
	KindUint64  = atom.KindUint
	KindFloat64 = atom.KindFloat
)
