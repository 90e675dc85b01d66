package simd

// Vectors are emulated as little-endian 64-bit words: byte lane j of word i is
// lane 8*i+j of the vector. Every operation is branch free on the words.

type (
	Vec128 [2]uint64
	Vec256 [4]uint64
	Vec512 [8]uint64
)

// Vector is the operation set the block classifier needs from one width.
type Vector[V any] interface {
	Width() int
	Load(b []byte) V
	Splat(b byte) V
	Table(t *[16]byte) V
	And(o V) V
	Or(o V) V
	Xor(o V) V
	AndNot(o V) V
	Not() V
	// Shuffle treats the receiver as a table replicated per 16-byte lane and
	// idx as per-byte indices. A set high bit in an index yields zero.
	Shuffle(idx V) V
	// CmpEq returns one bit per byte lane, set where the lanes are equal.
	CmpEq(o V) uint64
	// MoveMask packs the high bit of every byte lane.
	MoveMask() uint64
	// Control returns one bit per byte lane below 0x20.
	Control() uint64
}

func loadWords(dst []uint64, b []byte) {
	for i := range dst {
		dst[i] = word(b[8*i:])
	}
}

func tableWords(dst []uint64, t *[16]byte) {
	lo := word(t[:8])
	hi := word(t[8:])
	for i := range dst {
		if i&1 == 0 {
			dst[i] = lo
		} else {
			dst[i] = hi
		}
	}
}

func shuffleWords(dst, tbl, idx []uint64) {
	for i := range dst {
		var out uint64
		x := idx[i]
		for j := 0; j < 8; j++ {
			b := byte(x >> (8 * j))
			// Table lanes are 16 bytes wide: pick the word pair of this lane.
			pair := i &^ 1
			n := b & 15
			v := byte(tbl[pair+int(n>>3)] >> (8 * (n & 7)))
			v &^= byte(int8(b) >> 7)
			out |= uint64(v) << (8 * j)
		}
		dst[i] = out
	}
}

func cmpEqWords(a, b []uint64) uint64 {
	var m uint64
	for i := range a {
		m |= packHigh(eqHigh(a[i], b[i])) << (8 * i)
	}
	return m
}

func moveMaskWords(a []uint64) uint64 {
	var m uint64
	for i := range a {
		m |= packHigh(a[i]&msb) << (8 * i)
	}
	return m
}

func controlWords(a []uint64) uint64 {
	var m uint64
	for i := range a {
		m |= packHigh(controlHigh(a[i])) << (8 * i)
	}
	return m
}

func (Vec128) Width() int { return 16 }

func (Vec128) Load(b []byte) (v Vec128) {
	loadWords(v[:], b)
	return v
}

func (Vec128) Splat(b byte) Vec128 { return Vec128{splat(b), splat(b)} }

func (Vec128) Table(t *[16]byte) (v Vec128) {
	tableWords(v[:], t)
	return v
}

func (v Vec128) And(o Vec128) Vec128    { return Vec128{v[0] & o[0], v[1] & o[1]} }
func (v Vec128) Or(o Vec128) Vec128     { return Vec128{v[0] | o[0], v[1] | o[1]} }
func (v Vec128) Xor(o Vec128) Vec128    { return Vec128{v[0] ^ o[0], v[1] ^ o[1]} }
func (v Vec128) AndNot(o Vec128) Vec128 { return Vec128{v[0] &^ o[0], v[1] &^ o[1]} }
func (v Vec128) Not() Vec128            { return Vec128{^v[0], ^v[1]} }

func (v Vec128) Shuffle(idx Vec128) (r Vec128) {
	shuffleWords(r[:], v[:], idx[:])
	return r
}

func (v Vec128) CmpEq(o Vec128) uint64 { return cmpEqWords(v[:], o[:]) }
func (v Vec128) MoveMask() uint64      { return moveMaskWords(v[:]) }
func (v Vec128) Control() uint64       { return controlWords(v[:]) }

func (Vec256) Width() int { return 32 }

func (Vec256) Load(b []byte) (v Vec256) {
	loadWords(v[:], b)
	return v
}

func (Vec256) Splat(b byte) Vec256 {
	s := splat(b)
	return Vec256{s, s, s, s}
}

func (Vec256) Table(t *[16]byte) (v Vec256) {
	tableWords(v[:], t)
	return v
}

func (v Vec256) And(o Vec256) (r Vec256) {
	for i := range r {
		r[i] = v[i] & o[i]
	}
	return r
}

func (v Vec256) Or(o Vec256) (r Vec256) {
	for i := range r {
		r[i] = v[i] | o[i]
	}
	return r
}

func (v Vec256) Xor(o Vec256) (r Vec256) {
	for i := range r {
		r[i] = v[i] ^ o[i]
	}
	return r
}

func (v Vec256) AndNot(o Vec256) (r Vec256) {
	for i := range r {
		r[i] = v[i] &^ o[i]
	}
	return r
}

func (v Vec256) Not() (r Vec256) {
	for i := range r {
		r[i] = ^v[i]
	}
	return r
}

func (v Vec256) Shuffle(idx Vec256) (r Vec256) {
	shuffleWords(r[:], v[:], idx[:])
	return r
}

func (v Vec256) CmpEq(o Vec256) uint64 { return cmpEqWords(v[:], o[:]) }
func (v Vec256) MoveMask() uint64      { return moveMaskWords(v[:]) }
func (v Vec256) Control() uint64       { return controlWords(v[:]) }

func (Vec512) Width() int { return 64 }

func (Vec512) Load(b []byte) (v Vec512) {
	loadWords(v[:], b)
	return v
}

func (Vec512) Splat(b byte) (v Vec512) {
	s := splat(b)
	for i := range v {
		v[i] = s
	}
	return v
}

func (Vec512) Table(t *[16]byte) (v Vec512) {
	tableWords(v[:], t)
	return v
}

func (v Vec512) And(o Vec512) (r Vec512) {
	for i := range r {
		r[i] = v[i] & o[i]
	}
	return r
}

func (v Vec512) Or(o Vec512) (r Vec512) {
	for i := range r {
		r[i] = v[i] | o[i]
	}
	return r
}

func (v Vec512) Xor(o Vec512) (r Vec512) {
	for i := range r {
		r[i] = v[i] ^ o[i]
	}
	return r
}

func (v Vec512) AndNot(o Vec512) (r Vec512) {
	for i := range r {
		r[i] = v[i] &^ o[i]
	}
	return r
}

func (v Vec512) Not() (r Vec512) {
	for i := range r {
		r[i] = ^v[i]
	}
	return r
}

func (v Vec512) Shuffle(idx Vec512) (r Vec512) {
	shuffleWords(r[:], v[:], idx[:])
	return r
}

func (v Vec512) CmpEq(o Vec512) uint64 { return cmpEqWords(v[:], o[:]) }
func (v Vec512) MoveMask() uint64      { return moveMaskWords(v[:]) }
func (v Vec512) Control() uint64       { return controlWords(v[:]) }
