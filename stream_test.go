package lazyjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biggeezerdevelopment/lazyjson/internal/source"
)

type event struct {
	Seq   int      `json:"seq"`
	Kind  string   `json:"kind"`
	Tags  []string `json:"tags,omitempty"`
	Score float64  `json:"score"`
}

func makeEvents(n int) []event {
	events := make([]event, n)
	for i := range events {
		events[i] = event{
			Seq:   i,
			Kind:  fmt.Sprintf("kind-%d", i%7),
			Score: float64(i) / 4,
		}
		if i%3 == 0 {
			events[i].Tags = []string{"x", strings.Repeat("y", i%50)}
		}
	}
	return events
}

func decodeAll(t *testing.T, r io.Reader) []event {
	t.Helper()
	dec := NewDecoder(r)
	defer dec.Close()

	var out []event
	for dec.More() {
		var e event
		require.NoError(t, dec.Decode(&e))
		out = append(out, e)
	}
	_, err := dec.Next()
	assert.Equal(t, io.EOF, err)
	return out
}

func TestDecoderNDJSON(t *testing.T) {
	in := "{\"seq\":1,\"kind\":\"a\",\"score\":0}\n\n{\"seq\":2,\"kind\":\"b\",\"score\":1.5}\r\n"
	got := decodeAll(t, strings.NewReader(in))
	assert.Equal(t, []event{
		{Seq: 1, Kind: "a"},
		{Seq: 2, Kind: "b", Score: 1.5},
	}, got)
}

func TestDecoderConcatenatedValues(t *testing.T) {
	in := `1 "two" [3]{"four":4}null true  -5.5`
	want := []any{1.0, "two", []any{3.0}, map[string]any{"four": 4.0}, nil, true, -5.5}

	for name, r := range map[string]io.Reader{
		"whole":   strings.NewReader(in),
		"onebyte": iotest.OneByteReader(strings.NewReader(in)),
	} {
		t.Run(name, func(t *testing.T) {
			dec := NewDecoder(r)
			defer dec.Close()
			var got []any
			for {
				doc, err := dec.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				v, err := doc.Interface()
				require.NoError(t, err)
				got = append(got, v)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestDecoderAcrossChunks(t *testing.T) {
	events := makeEvents(5000)
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, e := range events {
		require.NoError(t, enc.Encode(e))
	}
	require.NoError(t, enc.Close())
	require.Greater(t, buf.Len(), 4*readChunk)

	assert.Equal(t, events, decodeAll(t, bytes.NewReader(buf.Bytes())))
	assert.Equal(t, events, decodeAll(t, iotest.HalfReader(bytes.NewReader(buf.Bytes()))))
}

func TestDecoderErrors(t *testing.T) {
	t.Run("malformed_document", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(`{"a":1} {"b": } {"c":3}`))
		var v map[string]int
		require.NoError(t, dec.Decode(&v))
		assert.Equal(t, map[string]int{"a": 1}, v)

		err := dec.Decode(&v)
		assert.ErrorIs(t, err, ErrTape)
		// Errors are sticky.
		assert.Equal(t, err, dec.Decode(&v))
		assert.False(t, dec.More())
	})

	t.Run("truncated", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(`[1] {"b":[2`))
		_, err := dec.Next()
		require.NoError(t, err)
		_, err = dec.Next()
		assert.ErrorIs(t, err, ErrIncompleteArrayOrObject)
	})

	t.Run("unclosed_string", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(`"abc`))
		_, err := dec.Next()
		assert.ErrorIs(t, err, ErrUnclosedString)
	})

	t.Run("empty", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(" \n\t "))
		assert.False(t, dec.More())
		_, err := dec.Next()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("bad_option", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(`1`), WithMaxDepth(-1))
		assert.False(t, dec.More())
		_, err := dec.Next()
		assert.ErrorIs(t, err, ErrDepth)
		assert.NoError(t, dec.Close())
	})

	t.Run("reader_failure", func(t *testing.T) {
		boom := errors.New("boom")
		dec := NewDecoder(io.MultiReader(strings.NewReader(`[1,`), iotest.ErrReader(boom)))
		_, err := dec.Next()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("parser_options_apply", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(`[[1]] [[[1]]]`), WithMaxDepth(2))
		_, err := dec.Next()
		require.NoError(t, err)
		_, err = dec.Next()
		assert.ErrorIs(t, err, ErrDepth)
	})
}

func TestDecoderBadDocumentIsLocal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code ErrorCode
	}{
		{"control_character", "{\"a\":1}\n{\"b\":\"x\ty\"}\n{\"c\":3}\n", ErrString},
		{"invalid_utf8", "{\"a\":1} \"\xff\" [2]", ErrUTF8},
		{"scalar_before", "7 \"x\ty\"", ErrString},
	}
	for _, tc := range cases {
		for name, r := range map[string]func() io.Reader{
			"whole":   func() io.Reader { return strings.NewReader(tc.in) },
			"onebyte": func() io.Reader { return iotest.OneByteReader(strings.NewReader(tc.in)) },
		} {
			t.Run(tc.name+"/"+name, func(t *testing.T) {
				dec := NewDecoder(r())
				defer dec.Close()

				doc, err := dec.Next()
				require.NoError(t, err)
				v, err := doc.Interface()
				require.NoError(t, err)
				assert.NotNil(t, v)

				_, err = dec.Next()
				assert.ErrorIs(t, err, tc.code)
			})
		}
	}
}

func TestCompressedStreams(t *testing.T) {
	events := makeEvents(500)
	formats := []Compression{
		CompressionGzip, CompressionZstd, CompressionS2, CompressionSnappy, CompressionLZ4,
	}
	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewEncoder(&buf, WithCompression(format))
			for _, e := range events {
				require.NoError(t, enc.Encode(e))
			}
			require.NoError(t, enc.Close())

			head := buf.Bytes()[:min(buf.Len(), 16)]
			assert.Equal(t, format, source.Detect(head))

			assert.Equal(t, events, decodeAll(t, bytes.NewReader(buf.Bytes())))
			assert.Equal(t, events, decodeAll(t, iotest.OneByteReader(bytes.NewReader(buf.Bytes()))))
		})
	}
}

func TestParseReader(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, WithCompression(CompressionGzip))
	require.NoError(t, enc.Encode(map[string][]int{"values": {1, 2, 3}}))
	require.NoError(t, enc.Close())

	p, err := NewParser()
	require.NoError(t, err)
	doc, err := p.ParseReader(&buf)
	require.NoError(t, err)
	n, err := doc.AtPointer("/values/2").GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	doc, err = p.ParseReader(strings.NewReader(` {"plain":true} `))
	require.NoError(t, err)
	b, err := doc.FindField("plain").GetBool()
	require.NoError(t, err)
	assert.True(t, b)

	_, err = p.ParseReader(iotest.ErrReader(io.ErrUnexpectedEOF))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(map[string]int{"b": 2, "a": 1}))
	require.NoError(t, enc.Encode([]string{"x"}))
	require.NoError(t, enc.Encode(nil))
	assert.Equal(t, "{\"a\":1,\"b\":2}\n[\"x\"]\nnull\n", buf.String())
	assert.NoError(t, enc.Close())
}

func TestEncoderIndent(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, WithIndent("> ", "\t"))
	require.NoError(t, enc.Encode(map[string]any{"a": []int{1}, "b": map[string]int{}}))
	assert.Equal(t, "{\n> \t\"a\": [\n> \t\t1\n> \t],\n> \t\"b\": {}\n> }\n", buf.String())
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestEncoderErrors(t *testing.T) {
	enc := NewEncoder(io.Discard, WithMaxEncodeDepth(0))
	assert.ErrorIs(t, enc.Encode(1), ErrDepth)

	enc = NewEncoder(io.Discard, WithMaxEncodeDepth(2))
	require.NoError(t, enc.Encode([][]int{{1}}))
	assert.ErrorIs(t, enc.Encode([][][]int{{{1}}}), ErrDepth)
	// An unencodable value does not poison the stream.
	require.NoError(t, enc.Encode("ok"))

	enc = NewEncoder(io.Discard, WithCompression(Compression(200)))
	assert.ErrorIs(t, enc.Encode(1), source.ErrUnknownFormat)

	boom := errors.New("disk full")
	enc = NewEncoder(failingWriter{boom})
	assert.ErrorIs(t, enc.Encode(1), boom)
	assert.ErrorIs(t, enc.Encode(2), boom)
}
