package lazyjson

import (
	"log/slog"

	"github.com/biggeezerdevelopment/lazyjson/internal/options"
	"github.com/biggeezerdevelopment/lazyjson/internal/scanner"
	"github.com/biggeezerdevelopment/lazyjson/internal/simd"
	"github.com/biggeezerdevelopment/lazyjson/internal/source"
)

// ParserOption configures a Parser.
type ParserOption = options.Option[*Parser]

// WithMaxDepth bounds container nesting checked during validation.
func WithMaxDepth(depth int) ParserOption {
	return options.New(func(p *Parser) error {
		if depth <= 0 {
			return &Error{Op: "WithMaxDepth", Err: ErrDepth}
		}
		p.maxDepth = depth
		return nil
	})
}

// WithValidation toggles the full grammar check after indexing. Without it,
// malformed input is only detected where the cursors happen to look.
func WithValidation(enabled bool) ParserOption {
	return options.NoError(func(p *Parser) {
		p.validate = enabled
	})
}

// WithKernel pins the block classifier by name: "w512", "w256", "w128" or
// "scalar".
func WithKernel(name string) ParserOption {
	return options.New(func(p *Parser) error {
		k, err := simd.Lookup(name)
		if err != nil {
			return &Error{Op: "WithKernel", Err: err}
		}
		p.scanner.SetKernel(k)
		return nil
	})
}

// WithCapacity preallocates buffers for inputs up to size bytes.
func WithCapacity(size int) ParserOption {
	return options.NoError(func(p *Parser) {
		p.input.Grow(size)
		p.scanner.Grow(size / 8)
		if cap(p.doc.json.strings) < size {
			p.doc.json.strings = make([]byte, 0, size)
		}
	})
}

// WithLogger sets the logger for parse diagnostics.
func WithLogger(logger *slog.Logger) ParserOption {
	return options.NoError(func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	})
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// Compression names a stream encoding understood by NewDecoder,
// Parser.ParseReader and WithCompression.
type Compression = source.Format

const (
	CompressionNone   = source.Plain
	CompressionGzip   = source.Gzip
	CompressionZstd   = source.Zstd
	CompressionS2     = source.S2
	CompressionSnappy = source.Snappy
	CompressionLZ4    = source.LZ4
)

// WithCompression compresses the encoded stream.
func WithCompression(format Compression) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.format = format
	})
}

// WithIndent makes the Encoder prettify each document.
func WithIndent(prefix, indent string) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.pretty = &PrettifyOptions{Prefix: prefix, Indent: indent}
	})
}

// WithMaxEncodeDepth bounds how many containers and pointers deep a value
// may nest before encoding fails with ErrDepth.
func WithMaxEncodeDepth(depth int) EncoderOption {
	return options.New(func(e *Encoder) error {
		if depth <= 0 {
			return &Error{Op: "WithMaxEncodeDepth", Err: ErrDepth}
		}
		e.maxDepth = depth
		return nil
	})
}

func WithEncoderLogger(logger *slog.Logger) EncoderOption {
	return options.NoError(func(e *Encoder) {
		if logger != nil {
			e.logger = logger
		}
	})
}

// BatchOption configures ParseBatch and UnmarshalBatch.
type BatchOption = options.Option[*batchConfig]

// WithWorkers sets the worker pool size. Zero means GOMAXPROCS.
func WithWorkers(n int) BatchOption {
	return options.NoError(func(c *batchConfig) {
		c.workers = n
	})
}

// WithParserOptions applies opts to every parser a batch uses.
func WithParserOptions(opts ...ParserOption) BatchOption {
	return options.NoError(func(c *batchConfig) {
		c.parserOpts = append(c.parserOpts, opts...)
	})
}

func WithBatchLogger(logger *slog.Logger) BatchOption {
	return options.NoError(func(c *batchConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

var discardLogger = slog.New(slog.DiscardHandler)

const defaultMaxDepth = scanner.DefaultMaxDepth
