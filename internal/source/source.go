// Package source recognizes compressed JSON streams by their magic bytes
// and wraps them in the matching decompressor, and builds compressing
// writers for the encoder.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies a stream encoding.
type Format uint8

const (
	Plain Format = iota
	Gzip
	Zstd
	S2
	Snappy
	LZ4
)

var formatNames = [...]string{
	Plain:  "plain",
	Gzip:   "gzip",
	Zstd:   "zstd",
	S2:     "s2",
	Snappy: "snappy",
	LZ4:    "lz4",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ErrUnknownFormat is returned by NewWriter for a Format it cannot produce.
var ErrUnknownFormat = errors.New("source: unknown format")

var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicFramed = []byte{0xff, 0x06, 0x00, 0x00}
	idSnappy    = []byte("sNaPpY")
	idS2        = []byte("S2sTwO")
)

// sniffLen is the longest prefix Detect looks at.
const sniffLen = 10

// Detect names the format a stream starting with head is in. JSON text
// never starts with any of the magic numbers, so anything unrecognized is
// Plain.
func Detect(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, magicZstd):
		return Zstd
	case bytes.HasPrefix(head, magicLZ4):
		return LZ4
	case bytes.HasPrefix(head, magicGzip):
		return Gzip
	case bytes.HasPrefix(head, magicFramed) && len(head) >= sniffLen:
		switch {
		case bytes.Equal(head[4:sniffLen], idS2):
			return S2
		case bytes.Equal(head[4:sniffLen], idSnappy):
			return Snappy
		}
	}
	return Plain
}

type readCloser struct {
	io.Reader
	close func() error
}

func (rc readCloser) Close() error {
	if rc.close == nil {
		return nil
	}
	return rc.close()
}

// NewReader wraps r in a decompressor when its first bytes carry a known
// magic number. Closing the result releases decoder state but not r.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, Plain, err
	}

	format := Detect(head)
	switch format {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("source: gzip: %w", err)
		}
		return zr, format, nil
	case Zstd:
		zr, err := zstd.NewReader(br,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			return nil, format, fmt.Errorf("source: zstd: %w", err)
		}
		return readCloser{Reader: zr, close: func() error { zr.Close(); return nil }}, format, nil
	case S2, Snappy:
		return readCloser{Reader: s2.NewReader(br)}, format, nil
	case LZ4:
		return readCloser{Reader: lz4.NewReader(br)}, format, nil
	}
	return readCloser{Reader: br}, Plain, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns a writer that compresses into w. Close flushes the
// compressed stream but does not close w.
func NewWriter(w io.Writer, format Format) (io.WriteCloser, error) {
	switch format {
	case Plain:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("source: zstd: %w", err)
		}
		return zw, nil
	case S2:
		return s2.NewWriter(w), nil
	case Snappy:
		return s2.NewWriter(w, s2.WriterSnappyCompat()), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, uint8(format))
}
