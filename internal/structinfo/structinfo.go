// Package structinfo builds and caches the JSON view of struct types: which
// fields are visible under which names, in declaration order, and how to
// find a field from a key read off the wire.
package structinfo

import (
	"cmp"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
)

// Field is one JSON-visible struct field, possibly promoted from an
// embedded struct.
type Field struct {
	Name      string
	Index     []int
	Type      reflect.Type
	OmitEmpty bool
	Quoted    bool

	// Key is the encoded name followed by a colon.
	Key []byte

	tagged bool
	hash   uint64
	fold   uint64
}

// Struct lists the fields of a struct type in declaration order.
type Struct struct {
	Fields []Field

	// dispatch holds field positions sorted by name length, then first
	// byte; small structs are searched here instead of through the maps.
	dispatch []int
	byHash   map[uint64][]int
	byFold   map[uint64][]int
}

// smallStruct is the field count up to which Lookup scans dispatch.
const smallStruct = 8

var cache sync.Map // reflect.Type -> *Struct

// Of returns the field table for struct type t.
func Of(t reflect.Type) *Struct {
	if s, ok := cache.Load(t); ok {
		return s.(*Struct)
	}
	s, _ := cache.LoadOrStore(t, build(t))
	return s.(*Struct)
}

// Lookup finds the field named key. next is the position the caller expects,
// usually one past the previous match, and is tried first. Names match
// exactly, or failing that case-insensitively. It returns -1 for no match.
func (s *Struct) Lookup(key []byte, next int) int {
	if next >= 0 && next < len(s.Fields) && s.Fields[next].Name == atom.UnsafeString(key) {
		return next
	}
	if len(s.Fields) <= smallStruct {
		for _, i := range s.dispatch {
			name := s.Fields[i].Name
			if len(name) > len(key) {
				break
			}
			if name == atom.UnsafeString(key) {
				return i
			}
		}
	} else {
		for _, i := range s.byHash[xxhash.Sum64(key)] {
			if s.Fields[i].Name == atom.UnsafeString(key) {
				return i
			}
		}
	}

	var buf [64]byte
	folded := foldKey(buf[:0], key)
	for _, i := range s.byFold[xxhash.Sum64(folded)] {
		if strings.EqualFold(s.Fields[i].Name, atom.UnsafeString(key)) {
			return i
		}
	}
	return -1
}

func foldKey(dst, key []byte) []byte {
	for len(key) > 0 {
		c := key[0]
		if c < utf8.RuneSelf {
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			dst = append(dst, c)
			key = key[1:]
			continue
		}
		r, n := utf8.DecodeRune(key)
		dst = utf8.AppendRune(dst, unicode.ToLower(unicode.ToUpper(r)))
		key = key[n:]
	}
	return dst
}

func build(t reflect.Type) *Struct {
	s := &Struct{Fields: typeFields(t)}
	s.byHash = make(map[uint64][]int, len(s.Fields))
	s.byFold = make(map[uint64][]int, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		f.hash = xxhash.Sum64String(f.Name)
		f.fold = xxhash.Sum64(foldKey(nil, []byte(f.Name)))
		f.Key = append(atom.AppendString(nil, f.Name), ':')
		s.byHash[f.hash] = append(s.byHash[f.hash], i)
		s.byFold[f.fold] = append(s.byFold[f.fold], i)
		s.dispatch = append(s.dispatch, i)
	}
	slices.SortStableFunc(s.dispatch, func(a, b int) int {
		na, nb := s.Fields[a].Name, s.Fields[b].Name
		if c := cmp.Compare(len(na), len(nb)); c != 0 {
			return c
		}
		if na == "" {
			return 0
		}
		return cmp.Compare(na[0], nb[0])
	})
	return s
}

// typeFields walks t and its embedded structs breadth first and keeps, for
// every name, the one field that dominates: the shallowest, and among equals
// the only tagged one. Names that stay ambiguous are dropped.
func typeFields(t reflect.Type) []Field {
	type level struct {
		typ   reflect.Type
		index []int
	}
	current := []level{}
	next := []level{{typ: t}}
	visited := map[reflect.Type]bool{}

	var fields []Field
	for len(next) > 0 {
		current, next = next, current[:0]
		for _, lv := range current {
			if visited[lv.typ] {
				continue
			}
			visited[lv.typ] = true

			for i := 0; i < lv.typ.NumField(); i++ {
				sf := lv.typ.Field(i)
				ft := sf.Type
				if sf.Anonymous {
					if ft.Kind() == reflect.Pointer {
						ft = ft.Elem()
					}
					if !sf.IsExported() && ft.Kind() != reflect.Struct {
						continue
					}
				} else if !sf.IsExported() {
					continue
				}

				tag := sf.Tag.Get("json")
				if tag == "-" {
					continue
				}
				name, opts, _ := strings.Cut(tag, ",")
				if !validName(name) {
					name = ""
				}
				index := append(slices.Clip(lv.index), i)

				if name == "" && sf.Anonymous && ft.Kind() == reflect.Struct {
					next = append(next, level{typ: ft, index: index})
					continue
				}

				f := Field{
					Name:      name,
					Index:     index,
					Type:      sf.Type,
					OmitEmpty: hasOption(opts, "omitempty"),
					tagged:    name != "",
				}
				if f.Name == "" {
					f.Name = sf.Name
				}
				if hasOption(opts, "string") {
					qt := sf.Type
					if qt.Name() == "" && qt.Kind() == reflect.Pointer {
						qt = qt.Elem()
					}
					switch qt.Kind() {
					case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
						reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
						reflect.Float32, reflect.Float64, reflect.String:
						f.Quoted = true
					}
				}
				fields = append(fields, f)
			}
		}
	}

	// Group by name, best candidate first.
	slices.SortStableFunc(fields, func(a, b Field) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := cmp.Compare(len(a.Index), len(b.Index)); c != 0 {
			return c
		}
		if a.tagged != b.tagged {
			if a.tagged {
				return -1
			}
			return 1
		}
		return slices.Compare(a.Index, b.Index)
	})

	out := fields[:0]
	for i := 0; i < len(fields); {
		j := i + 1
		for j < len(fields) && fields[j].Name == fields[i].Name {
			j++
		}
		if f, ok := dominant(fields[i:j]); ok {
			out = append(out, f)
		}
		i = j
	}

	slices.SortFunc(out, func(a, b Field) int { return slices.Compare(a.Index, b.Index) })
	return out
}

func dominant(fields []Field) (Field, bool) {
	if len(fields) > 1 && len(fields[0].Index) == len(fields[1].Index) && fields[0].tagged == fields[1].tagged {
		return Field{}, false
	}
	return fields[0], true
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c):
		case !unicode.IsLetter(c) && !unicode.IsDigit(c):
			return false
		}
	}
	return true
}
