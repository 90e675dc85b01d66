package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

func validate(input string, maxDepth int) error {
	s := New()
	defer s.Release()
	if err := s.Scan([]byte(input)); err != nil {
		return err
	}
	return Validate([]byte(input), s.StructuralIndices(), maxDepth)
}

func TestValidate_Accepts(t *testing.T) {
	inputs := []string{
		`null`, `true`, `false`, `0`, `-0.5e-3`, `"str"`, ` "padded" `,
		`{}`, `[]`, `[{}]`, `{"a":[]}`, `[[[[]]]]`,
		`{"a":1,"b":[true,false,null],"c":{"d":"e"}}`,
		`[1, 2.5, -3e10, "xA\n", {"k": [ ]}]`,
		"{\n  \"pretty\": [\n    1,\n    2\n  ]\n}\n",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.NoError(t, validate(in, 0))
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"trailing comma array", `[1,2,]`, errs.Tape},
		{"trailing comma object", `{"a":1,}`, errs.Tape},
		{"missing colon", `{"a" 1}`, errs.Tape},
		{"missing comma", `[1 2]`, errs.Tape},
		{"unquoted key", `{a:1}`, errs.Tape},
		{"non-string key", `{1:1}`, errs.Tape},
		{"mismatched", `[1}`, errs.Tape},
		{"stray closer", `]`, errs.Tape},
		{"unclosed array", `[1,2`, errs.IncompleteArrayOrObject},
		{"unclosed object", `{"a":{}`, errs.IncompleteArrayOrObject},
		{"dangling colon", `{"a":`, errs.IncompleteArrayOrObject},
		{"trailing content", `{} {}`, errs.TrailingContent},
		{"trailing scalar", `1 2`, errs.TrailingContent},
		{"bad true", `[tru]`, errs.TAtom},
		{"bad false", `[falsy]`, errs.FAtom},
		{"bad null", `nul`, errs.NAtom},
		{"leading zero", `[01]`, errs.Number},
		{"bare minus", `[-]`, errs.Number},
		{"bad exponent", `1e+`, errs.Number},
		{"bad escape", `["\x"]`, errs.String},
		{"bad unicode escape", `["\u12"]`, errs.String},
		{"junk after string", `["ab"c]`, errs.Tape},
		{"form feed outside string", "[1,\f2]", errs.Tape},
		{"bare word", `hello`, errs.Tape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.input, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.code)
		})
	}
}

func TestValidate_Depth(t *testing.T) {
	deep := strings.Repeat("[", 10) + strings.Repeat("]", 10)
	assert.NoError(t, validate(deep, 10))
	assert.ErrorIs(t, validate(deep, 9), errs.Depth)

	deeper := strings.Repeat("[", 11) + "1" + strings.Repeat("]", 11)
	assert.ErrorIs(t, validate(deeper, 10), errs.Depth)
}

func TestTokenize(t *testing.T) {
	input := `{"a\"b" : [12.5, true ,null,"x"]}`
	s := New()
	defer s.Release()
	require.NoError(t, s.Scan([]byte(input)))

	tokens := GetTokens()
	defer func() { PutTokens(tokens) }()
	tokens, err := Tokenize([]byte(input), s.StructuralIndices(), tokens)
	require.NoError(t, err)

	var types []TokenType
	var texts []string
	for _, tok := range tokens {
		types = append(types, tok.Type)
		texts = append(texts, input[tok.Start:tok.End])
	}
	assert.Equal(t, []TokenType{
		TokenObjectBegin, TokenString, TokenColon, TokenArrayBegin, TokenNumber, TokenComma,
		TokenTrue, TokenComma, TokenNull, TokenComma, TokenString, TokenArrayEnd, TokenObjectEnd,
	}, types)
	assert.Equal(t, []string{`{`, `"a\"b"`, `:`, `[`, `12.5`, `,`, `true`, `,`, `null`, `,`, `"x"`, `]`, `}`}, texts)
}

func TestPaddedBuffer(t *testing.T) {
	var pb PaddedBuffer
	assert.Empty(t, pb.Bytes())

	got := pb.Load([]byte(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, string(got))
	assert.Equal(t, strings.Repeat(" ", Padding), string(got[len(got):cap(got)]))

	high := pb.Cap()
	got = pb.Load([]byte(`[]`))
	assert.Equal(t, `[]`, string(got))
	assert.Equal(t, high, pb.Cap())
	assert.Equal(t, byte(' '), got[:cap(got)][2])

	n, err := pb.ReadFrom(strings.NewReader(strings.Repeat("x", 10000)))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), n)
	assert.Len(t, pb.Bytes(), 10000)
	assert.GreaterOrEqual(t, pb.Cap(), 10000)
}
