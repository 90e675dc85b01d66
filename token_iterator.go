package lazyjson

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/charclass"
)

// tokenIterator walks the structural index. Reads at or past the sentinel
// land in the padding, which is all spaces, so callers never see a token
// byte they could mistake for structure.
type tokenIterator struct {
	buf  []byte
	tape []uint32
	pos  int
}

// end is the tape position of the sentinel.
func (t *tokenIterator) end() int { return len(t.tape) - 1 }

func (t *tokenIterator) atEnd() bool { return t.pos >= t.end() }

func (t *tokenIterator) offset(i int) int {
	if i > t.end() {
		i = t.end()
	}
	return int(t.tape[i])
}

func (t *tokenIterator) peek() byte { return t.buf[t.offset(t.pos)] }

func (t *tokenIterator) peekAt(i int) byte { return t.buf[t.offset(i)] }

// advance returns the current token's first byte and moves past it.
func (t *tokenIterator) advance() byte {
	c := t.peek()
	if t.pos < t.end() {
		t.pos++
	}
	return c
}

// token returns the input from token i onward, padding included.
func (t *tokenIterator) token(i int) []byte { return t.buf[t.offset(i):] }

// span returns token i without the whitespace that separates it from the
// next token.
func (t *tokenIterator) span(i int) []byte {
	start, end := t.offset(i), t.offset(i+1)
	for end > start && charclass.IsSpace[t.buf[end-1]] {
		end--
	}
	return t.buf[start:end:end]
}
