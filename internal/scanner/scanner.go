package scanner

import (
	"math"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
	"github.com/biggeezerdevelopment/lazyjson/internal/simd"
)

// MaxInput is the largest input whose offsets fit the uint32 tape, keeping
// one value free for the sentinel.
const MaxInput = math.MaxUint32 - 1

const oddBits = 0xAAAAAAAAAAAAAAAA

// carry is the state one block hands to the next.
type carry struct {
	// 1 when the previous block ended in an odd run of backslashes
	escaped uint64
	// all ones when the previous block ended inside a string
	inString uint64
	// 1 when the last byte of the previous block was part of a scalar
	scalar uint64

	errMask   uint64
	errOffset int
}

func (c *carry) escapes(backslash uint64) uint64 {
	if backslash == 0 {
		escaped := c.escaped
		c.escaped = 0
		return escaped
	}
	potential := backslash &^ c.escaped
	code := ((potential<<1 | oddBits) - potential) ^ oddBits
	escaped := code ^ (backslash | c.escaped)
	c.escaped = (code & backslash) >> 63
	return escaped
}

// next turns the masks of one block into its structural bits. Only the
// opening quote of a string is structural.
func (c *carry) next(m simd.Masks, base int) uint64 {
	quotes := m.Quote &^ c.escapes(m.Backslash)
	inString := simd.PrefixXor(quotes) ^ c.inString
	c.inString = uint64(int64(inString) >> 63)

	if ctl := m.Control & inString; ctl != 0 {
		if c.errMask == 0 {
			c.errOffset = base + simd.TrailingZeros(ctl)
		}
		c.errMask |= ctl
	}

	scalar := ^(m.Op | m.Whitespace)
	start := scalar &^ simd.Follows(scalar&^quotes, &c.scalar)
	return (m.Op | start) &^ (inString ^ quotes)
}

// Scanner builds the structural index of a JSON text. It accepts input in
// one call to Scan or in pieces through Write and Finish; both produce the
// same index.
type Scanner struct {
	kernel            *simd.Kernel
	structuralIndices []uint32
	state             carry

	tail  [simd.BlockSize]byte
	ntail int
	base  int
}

var scannerPool = sync.Pool{
	New: func() interface{} {
		return &Scanner{
			structuralIndices: make([]uint32, 0, 1024),
		}
	},
}

func New() *Scanner {
	s := scannerPool.Get().(*Scanner)
	s.kernel = simd.Active()
	s.Reset()
	return s
}

func (s *Scanner) Release() {
	s.Reset()
	scannerPool.Put(s)
}

// SetKernel pins the block classifier, overriding the process default.
func (s *Scanner) SetKernel(k *simd.Kernel) {
	if k != nil {
		s.kernel = k
	}
}

func (s *Scanner) Kernel() *simd.Kernel { return s.kernel }

// Reset clears the index but keeps its storage.
func (s *Scanner) Reset() {
	s.structuralIndices = s.structuralIndices[:0]
	s.state = carry{}
	s.ntail = 0
	s.base = 0
}

// Grow makes room for n more indices.
func (s *Scanner) Grow(n int) {
	s.structuralIndices = slices.Grow(s.structuralIndices, n)
}

// StructuralIndices returns the index including the trailing sentinel, which
// equals the input length. It is valid until the next Reset.
func (s *Scanner) StructuralIndices() []uint32 {
	return s.structuralIndices
}

// Scan indexes data in one pass and checks that it is valid UTF-8.
func (s *Scanner) Scan(data []byte) error {
	s.Reset()
	if _, err := s.Write(data); err != nil {
		return err
	}
	if err := s.Finish(); err != nil {
		return err
	}
	if i := simd.ASCIIPrefix(data); i < len(data) && !utf8.Valid(data[i:]) {
		return &errs.Syntax{Code: errs.UTF8, Offset: i + invalidUTF8(data[i:])}
	}
	return nil
}

// Write feeds the next piece of input. Blocks straddling two writes are
// completed in an internal buffer; all other state travels in the carry.
func (s *Scanner) Write(p []byte) (int, error) {
	n := len(p)
	if uint64(s.base+s.ntail)+uint64(n) > MaxInput {
		return 0, &errs.Syntax{Code: errs.Capacity, Offset: s.base + s.ntail}
	}
	if s.ntail > 0 {
		c := copy(s.tail[s.ntail:], p)
		s.ntail += c
		p = p[c:]
		if s.ntail < simd.BlockSize {
			return n, nil
		}
		s.step(&s.tail)
		s.ntail = 0
	}
	for len(p) >= simd.BlockSize {
		s.step((*[simd.BlockSize]byte)(p))
		p = p[simd.BlockSize:]
	}
	s.ntail = copy(s.tail[:], p)
	return n, nil
}

// Finish indexes the final partial block, padded with spaces, and appends
// the sentinel.
func (s *Scanner) Finish() error {
	end := s.base + s.ntail
	if s.ntail > 0 {
		for i := s.ntail; i < simd.BlockSize; i++ {
			s.tail[i] = ' '
		}
		s.step(&s.tail)
		s.ntail = 0
	}

	idx := s.structuralIndices
	switch {
	case s.state.inString != 0:
		return &errs.Syntax{Code: errs.UnclosedString, Offset: int(idx[len(idx)-1])}
	case len(idx) == 0:
		return &errs.Syntax{Code: errs.Empty, Offset: end}
	case s.state.errMask != 0:
		return &errs.Syntax{Code: errs.String, Offset: s.state.errOffset}
	}
	s.structuralIndices = append(s.structuralIndices, uint32(end))
	return nil
}

func (s *Scanner) step(block *[simd.BlockSize]byte) {
	bits := s.state.next(s.kernel.Classify(block), s.base)
	s.flatten(uint32(s.base), bits)
	s.base += simd.BlockSize
}

func (s *Scanner) flatten(base uint32, bits uint64) {
	if bits == 0 {
		return
	}
	cnt := simd.PopCount(bits)
	idx := slices.Grow(s.structuralIndices, cnt)
	for bits != 0 {
		idx = append(idx, base+uint32(simd.TrailingZeros(bits)))
		bits = simd.ClearLowest(bits)
	}
	s.structuralIndices = idx
}

func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
