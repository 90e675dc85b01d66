package lazyjson

import (
	"strconv"
	"strings"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtPointer(t *testing.T) {
	doc := parse(t, `{"a":[{"b":42},7],"a/b":1,"m~n":2,"":3,"s":"x"}`)

	cases := []struct {
		ptr  string
		want int64
		err  error
	}{
		{ptr: "/a/0/b", want: 42},
		{ptr: "/a/1", want: 7},
		{ptr: "/a~1b", want: 1},
		{ptr: "/m~0n", want: 2},
		{ptr: "/", want: 3},
		{ptr: "/a/2", err: ErrOutOfBounds},
		{ptr: "/a/-", err: ErrOutOfBounds},
		{ptr: "/a/x", err: ErrIncorrectType},
		{ptr: "/a/01", err: ErrInvalidJSONPointer},
		{ptr: "/a/", err: ErrInvalidJSONPointer},
		{ptr: "/missing", err: ErrNoSuchField},
		{ptr: "/m~2n", err: ErrInvalidJSONPointer},
		{ptr: "/a~", err: ErrInvalidJSONPointer},
		{ptr: "a", err: ErrInvalidJSONPointer},
		{ptr: "/s/0", err: ErrInvalidJSONPointer},
		{ptr: "/a/1/c", err: ErrInvalidJSONPointer},
	}
	for _, tc := range cases {
		t.Run(tc.ptr, func(t *testing.T) {
			n, err := doc.AtPointer(tc.ptr).GetInt64()
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestAtPointerRoot(t *testing.T) {
	doc := parse(t, `{"a":1}`)
	n, err := doc.AtPointer("").CountFields()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	doc = parse(t, `12`)
	_, err = doc.AtPointer("").GetInt64()
	assert.Equal(t, ErrScalarDocumentAsValue, err)
	_, err = doc.AtPointer("/0").GetInt64()
	assert.Equal(t, ErrInvalidJSONPointer, err)
}

// TestAtPointerRewinds resolves pointers in an order that walks backwards
// through the document.
func TestAtPointerRewinds(t *testing.T) {
	doc := parse(t, `{"x":{"y":[10,20,30]},"z":true}`)

	b, err := doc.AtPointer("/z").GetBool()
	require.NoError(t, err)
	assert.True(t, b)

	for i := 2; i >= 0; i-- {
		n, err := doc.AtPointer("/x/y/" + strconv.Itoa(i)).GetInt64()
		require.NoError(t, err)
		assert.Equal(t, int64(10*(i+1)), n)
	}

	v := doc.AtPointer("/x")
	n, err := v.AtPointer("/y/1").GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)
}

// TestAgainstJSONParser cross-checks lookups with an independent lazy
// parser.
func TestAgainstJSONParser(t *testing.T) {
	data := generateLargeJSON(10)
	p, err := NewParser()
	require.NoError(t, err)
	doc, err := p.Parse(data)
	require.NoError(t, err)

	paths := [][]string{
		{"count"},
		{"items", "[0]", "name"},
		{"items", "[3]", "price"},
		{"items", "[5]", "active"},
		{"items", "[7]", "tags", "[2]"},
		{"items", "[9]", "metadata", "category"},
		{"items", "[2]", "metadata"},
	}
	for _, path := range paths {
		t.Run(strings.Join(path, "."), func(t *testing.T) {
			want, typ, _, err := jsonparser.Get(data, path...)
			require.NoError(t, err)

			v := doc.AtPointer(toPointer(path))
			switch typ {
			case jsonparser.String:
				got, err := v.GetString()
				require.NoError(t, err)
				s, err := jsonparser.ParseString(want)
				require.NoError(t, err)
				assert.Equal(t, s, got)
			case jsonparser.Number:
				got, err := v.GetFloat64()
				require.NoError(t, err)
				f, err := jsonparser.ParseFloat(want)
				require.NoError(t, err)
				assert.Equal(t, f, got)
			default:
				got, err := v.Raw()
				require.NoError(t, err)
				assert.JSONEq(t, string(want), string(got))
			}
		})
	}

	var count int
	_, err = jsonparser.ArrayEach(data, func([]byte, jsonparser.ValueType, int, error) {
		count++
	}, "items")
	require.NoError(t, err)
	n, err := doc.AtPointer("/items").CountElements()
	require.NoError(t, err)
	assert.Equal(t, count, n)
}

func toPointer(path []string) string {
	var sb strings.Builder
	for _, seg := range path {
		sb.WriteByte('/')
		seg = strings.TrimSuffix(strings.TrimPrefix(seg, "["), "]")
		sb.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(seg))
	}
	return sb.String()
}
