package lazyjson

import (
	"slices"

	"github.com/biggeezerdevelopment/lazyjson/internal/scanner"
)

// PrettifyOptions controls Prettify. Every line after the first starts with
// Prefix followed by one Indent per nesting level.
type PrettifyOptions struct {
	Prefix string
	Indent string
}

// Minify returns data with all insignificant whitespace removed. The input
// must be one valid JSON value.
func Minify(data []byte) ([]byte, error) {
	out, err := minifyAppend(nil, data)
	if err != nil {
		return nil, wrapErr("Minify", err)
	}
	return out, nil
}

// Prettify returns data laid out one element per line.
func Prettify(data []byte, opts PrettifyOptions) ([]byte, error) {
	out, err := prettifyAppend(nil, data, opts)
	if err != nil {
		return nil, wrapErr("Prettify", err)
	}
	return out, nil
}

// tokenize indexes and validates data, then hands its tokens to fn.
func tokenize(data []byte, fn func(tokens []scanner.Token)) error {
	s := scanner.New()
	defer s.Release()

	if err := s.Scan(data); err != nil {
		return err
	}
	tape := s.StructuralIndices()
	if err := scanner.Validate(data, tape, scanner.DefaultMaxDepth); err != nil {
		return err
	}
	tokens, err := scanner.Tokenize(data, tape, scanner.GetTokens())
	defer scanner.PutTokens(tokens)
	if err != nil {
		return err
	}
	fn(tokens)
	return nil
}

func minifyAppend(dst, data []byte) ([]byte, error) {
	err := tokenize(data, func(tokens []scanner.Token) {
		dst = slices.Grow(dst, len(data))
		for _, tok := range tokens {
			dst = append(dst, data[tok.Start:tok.End]...)
		}
	})
	return dst, err
}

func prettifyAppend(dst, data []byte, opts PrettifyOptions) ([]byte, error) {
	newline := func(depth int) {
		dst = append(dst, '\n')
		dst = append(dst, opts.Prefix...)
		for range depth {
			dst = append(dst, opts.Indent...)
		}
	}

	err := tokenize(data, func(tokens []scanner.Token) {
		depth := 0
		for i := 0; i < len(tokens); i++ {
			tok := tokens[i]
			switch tok.Type {
			case scanner.TokenObjectBegin, scanner.TokenArrayBegin:
				dst = append(dst, data[tok.Start])
				next := tokens[i+1].Type
				if next == scanner.TokenObjectEnd || next == scanner.TokenArrayEnd {
					dst = append(dst, data[tokens[i+1].Start])
					i++
					continue
				}
				depth++
				newline(depth)
			case scanner.TokenObjectEnd, scanner.TokenArrayEnd:
				depth--
				newline(depth)
				dst = append(dst, data[tok.Start])
			case scanner.TokenComma:
				dst = append(dst, ',')
				newline(depth)
			case scanner.TokenColon:
				dst = append(dst, ':', ' ')
			default:
				dst = append(dst, data[tok.Start:tok.End]...)
			}
		}
	})
	return dst, err
}
