package lazyjson

import (
	"io"
	"log/slog"
	"sync"

	"github.com/biggeezerdevelopment/lazyjson/internal/options"
	"github.com/biggeezerdevelopment/lazyjson/internal/scanner"
	"github.com/biggeezerdevelopment/lazyjson/internal/simd"
	"github.com/biggeezerdevelopment/lazyjson/internal/source"
)

// Parser indexes JSON input and hands out a Document over it. The input
// copy, the structural index and the string scratch space are owned by the
// Parser and reused from one Parse to the next, so a Parser must not be used
// from more than one goroutine at a time.
type Parser struct {
	input   scanner.PaddedBuffer
	scanner *scanner.Scanner
	doc     Document

	maxDepth int
	validate bool
	logger   *slog.Logger
}

// NewParser creates a Parser. Validation is on by default.
func NewParser(opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		scanner:  scanner.New(),
		maxDepth: defaultMaxDepth,
		validate: true,
		logger:   discardLogger,
	}
	p.doc.json.invalidate()
	if err := options.Apply(p, opts...); err != nil {
		p.scanner.Release()
		return nil, err
	}
	p.logger.Debug("lazyjson: parser ready",
		"kernel", p.scanner.Kernel().Name,
		"cpu", simd.Describe(),
		"validate", p.validate,
		"maxDepth", p.maxDepth)
	return p, nil
}

// Parse copies data and indexes it. The returned Document is the Parser's
// own and is invalidated by the next call to any Parse method.
func (p *Parser) Parse(data []byte) (*Document, error) {
	return p.index(p.input.Load(data))
}

func (p *Parser) ParseString(s string) (*Document, error) {
	return p.index(p.input.LoadString(s))
}

// ParseReader reads r to the end and parses what it yielded. Compressed
// streams (gzip, zstd, s2, snappy, lz4) are recognized and decompressed.
func (p *Parser) ParseReader(r io.Reader) (*Document, error) {
	p.doc.json.invalidate()
	src, format, err := source.NewReader(r)
	if err != nil {
		return nil, wrapErr("ParseReader", err)
	}
	defer src.Close()

	if _, err := p.input.ReadFrom(src); err != nil {
		p.logger.Debug("lazyjson: read failed", "format", format.String(), "error", err)
		return nil, wrapErr("ParseReader", err)
	}
	return p.index(p.input.Bytes())
}

func (p *Parser) index(buf []byte) (*Document, error) {
	p.doc.json.invalidate()
	if err := p.scanner.Scan(buf); err != nil {
		p.logger.Debug("lazyjson: index failed", "size", len(buf), "error", err)
		return nil, err
	}
	tape := p.scanner.StructuralIndices()
	if p.validate {
		if err := scanner.Validate(buf, tape, p.maxDepth); err != nil {
			p.logger.Debug("lazyjson: validation failed", "size", len(buf), "error", err)
			return nil, err
		}
	}
	p.doc.json.init(p, buf[:len(buf)+scanner.Padding], tape)
	return &p.doc, nil
}

var parserPool = sync.Pool{
	New: func() interface{} {
		p, err := NewParser()
		if err != nil {
			panic(err)
		}
		return p
	},
}

func getParser() *Parser {
	return parserPool.Get().(*Parser)
}

func putParser(p *Parser) {
	p.doc.json.invalidate()
	// Keep one huge input from pinning its buffers in the pool.
	if p.input.Cap() > 1<<20 {
		return
	}
	parserPool.Put(p)
}
