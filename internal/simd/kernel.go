package simd

import (
	"errors"
	"sync/atomic"

	"github.com/biggeezerdevelopment/lazyjson/internal/charclass"
)

// BlockSize is the number of input bytes classified per step.
const BlockSize = 64

// Masks holds one bit per byte of a 64-byte block.
type Masks struct {
	Backslash  uint64
	Quote      uint64
	Whitespace uint64
	Op         uint64
	Control    uint64
}

// Kernel is a table of block routines for one vector width.
type Kernel struct {
	Name     string
	Width    int
	Classify func(block *[BlockSize]byte) Masks
}

var ErrUnknownKernel = errors.New("simd: unknown kernel")

var (
	kernels = []*Kernel{
		{Name: "w512", Width: 64, Classify: classifyVec[Vec512]},
		{Name: "w256", Width: 32, Classify: classifyVec[Vec256]},
		{Name: "w128", Width: 16, Classify: classifyVec[Vec128]},
		{Name: "scalar", Width: 1, Classify: classifyScalar},
	}

	active atomic.Pointer[Kernel]
)

func init() {
	k, _ := Lookup(detect())
	active.Store(k)
}

// Active returns the kernel selected for this process.
func Active() *Kernel { return active.Load() }

// Kernels lists every available kernel, widest first.
func Kernels() []*Kernel { return kernels }

func Lookup(name string) (*Kernel, error) {
	for _, k := range kernels {
		if k.Name == name {
			return k, nil
		}
	}
	return nil, ErrUnknownKernel
}

// Use replaces the active kernel. It is meant for configuration before
// parsing starts and for tests.
func Use(name string) error {
	k, err := Lookup(name)
	if err != nil {
		return err
	}
	active.Store(k)
	return nil
}

func classifyVec[V Vector[V]](block *[BlockSize]byte) Masks {
	var zero V
	var (
		backslash = zero.Splat('\\')
		quote     = zero.Splat('"')
		lower     = zero.Splat(0x20)
		opTable   = zero.Table(&charclass.OpNibble)
		wsTable   = zero.Table(&charclass.WhitespaceNibble)
	)

	var m Masks
	w := zero.Width()
	for off := 0; off < BlockSize; off += w {
		v := zero.Load(block[off:])
		shift := uint(off)
		m.Backslash |= v.CmpEq(backslash) << shift
		m.Quote |= v.CmpEq(quote) << shift
		m.Op |= opTable.Shuffle(v).CmpEq(v.Or(lower)) << shift
		m.Whitespace |= wsTable.Shuffle(v).CmpEq(v) << shift
		m.Control |= v.Control() << shift
	}
	return m
}

func classifyScalar(block *[BlockSize]byte) Masks {
	var m Masks
	for i, b := range block {
		bit := uint64(1) << i
		switch {
		case b == '\\':
			m.Backslash |= bit
		case b == '"':
			m.Quote |= bit
		case charclass.IsSpace[b]:
			m.Whitespace |= bit
		case charclass.IsOp[b]:
			m.Op |= bit
		}
		if b < 0x20 {
			m.Control |= bit
		}
	}
	return m
}
