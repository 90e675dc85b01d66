package lazyjson

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"unicode/utf8"

	"github.com/biggeezerdevelopment/lazyjson/internal/charclass"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
	"github.com/biggeezerdevelopment/lazyjson/internal/options"
	"github.com/biggeezerdevelopment/lazyjson/internal/scanner"
	"github.com/biggeezerdevelopment/lazyjson/internal/source"
)

// Unmarshal parses data and stores the result in the value v points to.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &Error{Op: "Unmarshal", Err: errs.UnsupportedType}
	}

	p := getParser()
	defer putParser(p)

	doc, err := p.Parse(data)
	if err != nil {
		return wrapErr("Unmarshal", err)
	}
	return doc.Decode(v)
}

// Valid reports whether data is exactly one well-formed JSON value.
func Valid(data []byte) bool {
	p := getParser()
	defer putParser(p)

	_, err := p.Parse(data)
	return err == nil
}

const readChunk = 32 << 10

// Decoder reads a stream of JSON values, such as NDJSON or concatenated
// documents. Compressed input is recognized on the first read.
type Decoder struct {
	r      io.Reader
	src    io.ReadCloser
	parser *Parser
	index  *scanner.Scanner

	buf    []byte
	tape   []uint32 // index of the indexed window, sentinel included
	next   int      // tape position of the next document
	window int      // length of buf when the window was indexed
	cut    bool     // the tape stops short of the window, before a bad byte
	bad    error    // why the window could not be indexed whole
	eof    bool
	err    error
}

// NewDecoder returns a Decoder reading from r. Parse options apply to every
// document.
func NewDecoder(r io.Reader, opts ...ParserOption) *Decoder {
	d := &Decoder{r: r}
	d.parser, d.err = NewParser(opts...)
	if d.err == nil {
		d.index = scanner.New()
	}
	return d
}

// More reports whether another value is waiting in the stream.
func (d *Decoder) More() bool {
	if d.err != nil {
		return false
	}
	for {
		d.trimSpace()
		if len(d.buf) > 0 {
			return true
		}
		if d.eof || d.fill() != nil {
			return false
		}
	}
}

// Decode reads the next value and stores it in the value v points to.
func (d *Decoder) Decode(v any) error {
	doc, err := d.Next()
	if err != nil {
		return err
	}
	return doc.Decode(v)
}

// Next parses the next value of the stream. The Document is valid until the
// following call to Next or Decode. At the end of the stream it returns
// io.EOF.
func (d *Decoder) Next() (*Document, error) {
	if d.err != nil {
		return nil, d.err
	}
	raw, err := d.split()
	if err != nil {
		if err != io.EOF {
			d.err = err
		}
		return nil, err
	}
	doc, err := d.parser.Parse(raw)
	if err != nil {
		d.parser.logger.Debug("lazyjson: stream document rejected", "size", len(raw), "error", err)
		d.err = wrapErr("Decoder", err)
		return nil, d.err
	}
	return doc, nil
}

// Close releases the decompressor, if one was started.
func (d *Decoder) Close() error {
	if d.index != nil {
		d.index.Release()
		d.index = nil
	}
	if d.src != nil {
		return d.src.Close()
	}
	return nil
}

// split cuts the next complete document off the front of the buffer,
// reading more input while the indexed window ends inside one.
func (d *Decoder) split() ([]byte, error) {
	for {
		d.trimSpace()
		if len(d.buf) == 0 {
			if d.eof {
				return nil, io.EOF
			}
			if err := d.fill(); err != nil {
				return nil, err
			}
			continue
		}
		if d.tape == nil {
			d.bad = d.scan()
		}
		if d.tape != nil {
			if end, ok := d.documentEnd(); ok {
				raw := d.buf[:end]
				d.consume(end)
				return raw, nil
			}
		}
		if d.eof || (d.bad != nil && !d.transient(d.bad)) {
			// Whatever is left is malformed; let the parser say how.
			raw := d.buf
			d.consume(len(d.buf))
			return raw, nil
		}
		if err := d.fill(); err != nil {
			return nil, err
		}
	}
}

// scan indexes the buffered window. If the window holds a bad byte, the
// index is cut at the last string opened before it, so the documents ahead
// of the bad one can still be split off. The error of the whole window is
// returned either way.
func (d *Decoder) scan() error {
	d.window, d.next, d.cut = len(d.buf), 0, false
	first := d.index.Scan(d.buf)
	if first == nil {
		d.tape = d.index.StructuralIndices()
		return nil
	}

	d.tape = nil
	end := len(d.buf)
	for err := first; err != nil; err = d.index.Scan(d.buf[:end]) {
		var syntax *errs.Syntax
		if !errors.As(err, &syntax) || syntax.Offset <= 0 || syntax.Offset >= end {
			return first
		}
		end = syntax.Offset
	}
	d.tape, d.cut = d.index.StructuralIndices(), true
	return first
}

// transient reports whether err may go away once more input arrives: a
// string still open at the end of the window, or a UTF-8 sequence split by
// the read.
func (d *Decoder) transient(err error) bool {
	var syntax *errs.Syntax
	if d.eof || !errors.As(err, &syntax) {
		return false
	}
	switch syntax.Code {
	case errs.UnclosedString:
		return true
	case errs.UTF8:
		return syntax.Offset > d.window-utf8.UTFMax
	}
	return false
}

// documentEnd finds where the document starting at d.tape[d.next] ends,
// relative to the front of the buffer. A trailing scalar is only complete
// once another token or the end of input follows it.
func (d *Decoder) documentEnd() (int, bool) {
	last := len(d.tape) - 1
	if d.next >= last {
		return 0, false
	}
	base := int(d.tape[d.next])
	switch d.buf[base-d.consumed()] {
	case '{', '[':
		depth := 0
		for i := d.next; i < last; i++ {
			switch d.buf[int(d.tape[i])-d.consumed()] {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					d.next = i + 1
					return int(d.tape[i]) + 1 - d.consumed(), true
				}
			}
		}
		return 0, false
	}
	if d.next+1 < last || (d.eof && !d.cut) || (d.cut && d.spaceBeforeCut()) {
		d.next++
		return int(d.tape[d.next]) - d.consumed(), true
	}
	return 0, false
}

// spaceBeforeCut reports whether whitespace ends the text before a cut
// index, which is what closes a scalar lying right before it.
func (d *Decoder) spaceBeforeCut() bool {
	i := int(d.tape[len(d.tape)-1]) - d.consumed() - 1
	return i >= 0 && charclass.IsSpace[d.buf[i]]
}

// consumed is how far the buffer front has moved past the indexed window's
// start.
func (d *Decoder) consumed() int {
	return d.window - len(d.buf)
}

func (d *Decoder) consume(n int) {
	d.buf = d.buf[n:]
	if len(d.buf) == 0 {
		d.tape = nil
	}
}

func (d *Decoder) trimSpace() {
	i := 0
	for i < len(d.buf) && charclass.IsSpace[d.buf[i]] {
		i++
	}
	if i > 0 {
		d.consume(i)
	}
}

// fill compacts the buffer and reads the next chunk. The index is dropped
// and rebuilt over the grown window.
func (d *Decoder) fill() error {
	if d.src == nil {
		src, format, err := source.NewReader(d.r)
		if err != nil {
			return wrapErr("Decoder", err)
		}
		d.src = src
		d.parser.logger.Debug("lazyjson: decoding stream", "format", format.String())
	}

	buf := slices.Grow(d.buf, readChunk)
	n, err := d.src.Read(buf[len(buf):cap(buf)])
	d.buf = buf[:len(buf)+n]
	d.tape = nil
	if err == io.EOF {
		d.eof = true
		return nil
	}
	return wrapErr("Decoder", err)
}

// Encoder writes JSON values to a stream, one per line, optionally
// compressed and indented.
type Encoder struct {
	w        io.Writer
	zw       io.WriteCloser
	format   source.Format
	pretty   *PrettifyOptions
	maxDepth int
	logger   *slog.Logger

	buf []byte
	err error
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		w:        w,
		maxDepth: defaultMaxEncodeDepth,
		logger:   discardLogger,
	}
	if e.err = options.Apply(e, opts...); e.err != nil {
		return e
	}
	if e.format != source.Plain {
		e.zw, e.err = source.NewWriter(w, e.format)
		e.err = wrapErr("NewEncoder", e.err)
	}
	return e
}

// Encode writes v followed by a newline.
func (e *Encoder) Encode(v any) error {
	if e.err != nil {
		return e.err
	}

	out, err := marshalAppend(e.buf[:0], v, e.maxDepth)
	if err != nil {
		e.logger.Debug("lazyjson: encode failed", "error", err)
		return err
	}
	if e.pretty != nil {
		pretty, err := prettifyAppend(nil, out, *e.pretty)
		if err != nil {
			return wrapErr("Encode", err)
		}
		out = pretty
	}
	out = append(out, '\n')
	e.buf = out

	w := e.w
	if e.zw != nil {
		w = e.zw
	}
	if _, err := w.Write(out); err != nil {
		e.err = wrapErr("Encode", err)
		return e.err
	}
	return nil
}

// Close flushes the compressor. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if e.zw == nil {
		return nil
	}
	err := e.zw.Close()
	e.zw = nil
	if err != nil {
		return wrapErr("Close", err)
	}
	return nil
}
