package lazyjson

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biggeezerdevelopment/lazyjson/internal/simd"
)

// TestKernelsAgree parses the same inputs with every block classifier and
// expects identical documents and identical failures.
func TestKernelsAgree(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		{"simple", `{"key":"value"}`},
		{"array", `[1,2,3,4,5]`},
		{"nested", `{"a":{"b":[1,2]}}`},
		{"complex", `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}],"count":2}`},
		{"large_string", `{"data":"` + strings.Repeat("x", 1000) + `"}`},
		{"escapes_across_blocks", `["` + strings.Repeat(`\\`, 40) + `\"` + strings.Repeat("a", 50) + `"]`},
		{"many_elements", generateManyElements(100)},
		{"unicode", `{"κλειδί":"τιμή","emoji":"🎉"}`},
		{"invalid_control", "[\"a\x01b\"]"},
		{"invalid_form_feed_op", "[1\x0c]"},
		{"invalid_unclosed", `{"a":"b`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var want []byte
			var wantErr error
			for i, k := range simd.Kernels() {
				p, err := NewParser(WithKernel(k.Name))
				require.NoError(t, err)

				var got []byte
				doc, err := p.Parse([]byte(tc.json))
				if err == nil {
					var v interface{}
					v, err = doc.Interface()
					require.NoError(t, err)
					got, err = Marshal(v)
					require.NoError(t, err)
				}
				if i == 0 {
					want, wantErr = got, err
					continue
				}
				assert.Equal(t, string(want), string(got), "kernel %s", k.Name)
				assert.Equal(t, wantErr, err, "kernel %s", k.Name)
			}
		})
	}
}

func TestWithKernelUnknown(t *testing.T) {
	_, err := NewParser(WithKernel("avx9000"))
	require.Error(t, err)
	assert.ErrorIs(t, err, simd.ErrUnknownKernel)
}

// TestBlockBoundaries moves a document across the 64-byte block edges.
func TestBlockBoundaries(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	for pad := 0; pad < 130; pad++ {
		input := strings.Repeat(" ", pad) + `{"k":"v\"","n":[1,-2.5e3,true]}`
		doc, err := p.ParseString(input)
		require.NoError(t, err, "pad %d", pad)

		s, err := doc.FindField("k").GetString()
		require.NoError(t, err)
		assert.Equal(t, `v"`, s)

		f, err := doc.FindField("n").At(1).GetFloat64()
		require.NoError(t, err)
		assert.Equal(t, -2500.0, f)
	}
}

func TestKernelConcurrency(t *testing.T) {
	testJSON := []byte(`{"test":"concurrent","numbers":[1,2,3,4,5],"nested":{"value":42}}`)

	var wg sync.WaitGroup
	errs := make(chan error, len(simd.Kernels())*3)
	for _, k := range simd.Kernels() {
		for g := 0; g < 3; g++ {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				p, err := NewParser(WithKernel(name))
				if err != nil {
					errs <- err
					return
				}
				for j := 0; j < 100; j++ {
					doc, err := p.Parse(testJSON)
					if err != nil {
						errs <- fmt.Errorf("%s: %w", name, err)
						return
					}
					n, err := doc.AtPointer("/nested/value").GetInt64()
					if err != nil || n != 42 {
						errs <- fmt.Errorf("%s: got %d, %v", name, n, err)
						return
					}
				}
			}(k.Name)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func generateManyElements(count int) string {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i := 0; i < count; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `{"id":%d,"value":"item_%d"}`, i, i)
	}
	buf.WriteString("]")
	return buf.String()
}
