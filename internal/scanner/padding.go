package scanner

import (
	"io"

	"github.com/biggeezerdevelopment/lazyjson/internal/simd"
)

// Padding is the number of space bytes kept after the logical end of a
// PaddedBuffer, so readers may look a full block past any offset.
const Padding = simd.BlockSize

// PaddedBuffer owns a copy of the input followed by Padding spaces. It grows
// to the largest input it has held and never shrinks.
type PaddedBuffer struct {
	data []byte
	n    int
}

// NewPaddedBuffer creates a buffer with room for size input bytes.
func NewPaddedBuffer(size int) *PaddedBuffer {
	return &PaddedBuffer{data: make([]byte, 0, size+Padding)}
}

// Bytes returns the logical input. The padding is reachable by reslicing up
// to the capacity.
func (pb *PaddedBuffer) Bytes() []byte {
	if pb.data == nil {
		pb.Grow(0)
	}
	return pb.data[:pb.n:pb.n+Padding]
}

// Cap reports the input size the buffer can hold without growing.
func (pb *PaddedBuffer) Cap() int {
	if cap(pb.data) < Padding {
		return 0
	}
	return cap(pb.data) - Padding
}

// Grow ensures room for size input bytes.
func (pb *PaddedBuffer) Grow(size int) {
	if pb.data != nil && size <= pb.Cap() {
		return
	}
	data := make([]byte, pb.n, size+Padding)
	copy(data, pb.data[:pb.n])
	pb.data = data
}

// Load replaces the contents with a copy of src.
func (pb *PaddedBuffer) Load(src []byte) []byte {
	pb.Grow(len(src))
	pb.n = copy(pb.data[:len(src)], src)
	pb.pad()
	return pb.Bytes()
}

// LoadString is Load for a string.
func (pb *PaddedBuffer) LoadString(src string) []byte {
	pb.Grow(len(src))
	pb.n = copy(pb.data[:len(src)], src)
	pb.pad()
	return pb.Bytes()
}

// ReadFrom replaces the contents with everything r yields.
func (pb *PaddedBuffer) ReadFrom(r io.Reader) (int64, error) {
	pb.n = 0
	for {
		if pb.Cap()-pb.n < 512 {
			pb.Grow(2*pb.Cap() + 4096)
		}
		m, err := r.Read(pb.data[pb.n:pb.Cap()])
		pb.n += m
		if err == io.EOF {
			pb.pad()
			return int64(pb.n), nil
		}
		if err != nil {
			pb.pad()
			return int64(pb.n), err
		}
	}
}

func (pb *PaddedBuffer) pad() {
	p := pb.data[pb.n : pb.n+Padding]
	for i := range p {
		p[i] = ' '
	}
}
