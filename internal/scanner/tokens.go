package scanner

import (
	"github.com/biggeezerdevelopment/lazyjson/internal/atom"
	"github.com/biggeezerdevelopment/lazyjson/internal/errs"
)

type TokenType uint8

const (
	TokenNone TokenType = iota
	TokenObjectBegin
	TokenObjectEnd
	TokenArrayBegin
	TokenArrayEnd
	TokenString
	TokenNumber
	TokenTrue
	TokenFalse
	TokenNull
	TokenColon
	TokenComma
)

var tokenTypes = [256]TokenType{
	'{': TokenObjectBegin,
	'}': TokenObjectEnd,
	'[': TokenArrayBegin,
	']': TokenArrayEnd,
	'"': TokenString,
	'-': TokenNumber,
	'0': TokenNumber, '1': TokenNumber, '2': TokenNumber, '3': TokenNumber, '4': TokenNumber,
	'5': TokenNumber, '6': TokenNumber, '7': TokenNumber, '8': TokenNumber, '9': TokenNumber,
	't': TokenTrue,
	'f': TokenFalse,
	'n': TokenNull,
	':': TokenColon,
	',': TokenComma,
}

// TypeOf classifies a token by its first byte. Literals are not verified.
func TypeOf(c byte) TokenType { return tokenTypes[c] }

// Token is one tape entry with its byte extent.
type Token struct {
	Type  TokenType
	Start uint32
	End   uint32
}

// Tokenize expands a tape, sentinel included, into tokens appended to dst.
// The tape must come from buf; tokens are not checked against the grammar.
func Tokenize(buf []byte, tape []uint32, dst []Token) ([]Token, error) {
	if len(tape) == 0 {
		return dst, nil
	}
	for i := 0; i < len(tape)-1; i++ {
		start, next := tape[i], tape[i+1]
		tok := Token{Type: TypeOf(buf[start]), Start: start, End: start + 1}
		switch tok.Type {
		case TokenString:
			n := atom.StringEnd(buf[start+1 : next])
			if n < 0 {
				return dst, &errs.Syntax{Code: errs.UnclosedString, Offset: int(start)}
			}
			tok.End = start + uint32(n) + 2
		case TokenNumber, TokenTrue, TokenFalse, TokenNull:
			tok.End = start + uint32(len(atom.TrimSpace(buf[start:next])))
		case TokenNone:
			return dst, &errs.Syntax{Code: errs.Tape, Offset: int(start)}
		}
		dst = append(dst, tok)
	}
	return dst, nil
}
