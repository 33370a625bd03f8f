package grammar

import (
	"io"

	"github.com/npillmayer/gorgo/lr/scanner"
	"github.com/npillmayer/srcalc"
	"github.com/npillmayer/srcalc/lexer"
)

// Tokenizer adapts a lexer.Scanner to gorgo's scanner.Tokenizer interface.
type Tokenizer struct {
	input   io.RuneReader
	sc      *lexer.Scanner
	last    srcalc.Token // last token handed out
	count   int          // number of tokens handed out, including end of input
	done    bool         // EndOfInput has been handed out
	err     error
	onError func(error)
}

var _ scanner.Tokenizer = &Tokenizer{}

// NewTokenizer creates a tokenizer reading runes from input.
func NewTokenizer(input io.RuneReader) *Tokenizer {
	return &Tokenizer{
		input: input,
		sc:    lexer.New(),
	}
}

// NextToken is part of interface scanner.Tokenizer. It returns the token
// kind as token value and the srcalc.Token itself as the token. After end of
// input, or after a fault, it returns scanner.EOF.
func (tz *Tokenizer) NextToken(expected []int) (int, interface{}, uint64, uint64) {
	if tz.done || tz.err != nil {
		return scanner.EOF, nil, uint64(tz.sc.Pos()), 0
	}
	for {
		r, _, err := tz.input.ReadRune()
		if err == io.EOF {
			r = lexer.EOI
		} else if err != nil {
			tz.fail(err)
			return scanner.EOF, nil, uint64(tz.sc.Pos()), 0
		}
		tok, ok, err := tz.sc.Next(r)
		if err != nil {
			tz.fail(err)
			return scanner.EOF, nil, uint64(tz.sc.Pos()), 0
		}
		if !ok {
			continue
		}
		tz.last = tok
		tz.count++
		if tok.Kind == srcalc.EndOfInput {
			tz.done = true
			return scanner.EOF, tok, uint64(tok.Pos), 0
		}
		T().Debugf("grammar: token %s", tok)
		return int(tok.Kind), tok, uint64(tok.Pos), uint64(len(tok.Text))
	}
}

// SetErrorHandler is part of interface scanner.Tokenizer. h receives scanner
// faults and read errors.
func (tz *Tokenizer) SetErrorHandler(h func(error)) {
	tz.onError = h
}

// Err returns the first fault encountered, if any.
func (tz *Tokenizer) Err() error {
	return tz.err
}

// Count returns the number of tokens handed out so far, including end of input.
func (tz *Tokenizer) Count() int {
	return tz.count
}

func (tz *Tokenizer) fail(err error) {
	T().Errorf("grammar: %v", err)
	tz.err = err
	if tz.onError != nil {
		tz.onError(err)
	}
}
