package srcalc

import (
	"fmt"
	"strconv"
)

// TokenKind is the class of a token, as seen by the parser.
type TokenKind int8

// Token classes. Digits carries a parsed integer value, Id carries its raw text.
const (
	LParen TokenKind = iota
	RParen
	Plus
	Times
	Digits
	Id
	EndOfInput
	NumTokenKinds = iota // number of token classes
)

var kindNames = [...]string{"(", ")", "+", "*", "digits", "id", "<eoi>"}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "token(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Token is an immutable unit of input produced by the scanner.
type Token struct {
	Kind  TokenKind // class of the token
	Value int       // parsed value, for Digits only
	Text  string    // lexeme; empty for EndOfInput
	Pos   int       // offset of the first character in feed order
}

// MakeToken creates a token without a semantic value.
func MakeToken(kind TokenKind, text string, pos int) Token {
	return Token{Kind: kind, Text: text, Pos: pos}
}

// MakeDigits creates a Digits token with value n.
func MakeDigits(n int, text string, pos int) Token {
	return Token{Kind: Digits, Value: n, Text: text, Pos: pos}
}

// HasValue is true for tokens carrying a value to the parser's value stack.
func (t Token) HasValue() bool {
	return t.Kind == Digits
}

func (t Token) String() string {
	switch t.Kind {
	case Digits:
		return fmt.Sprintf("digits(%d)@%d", t.Value, t.Pos)
	case Id:
		return fmt.Sprintf("id(%q)@%d", t.Text, t.Pos)
	}
	return fmt.Sprintf("%s@%d", t.Kind, t.Pos)
}
