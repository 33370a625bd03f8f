/*
Package eval drives the scanner and the parser over an input text.

The driver reads characters front to back and feeds each of them to a
lexer.Scanner. Every completed token is handed to a parser.Parser. Once the
input is exhausted, the driver feeds lexer.EOI until the parser delivers its
result. A complete evaluation looks like this:

   value, err := eval.Evaluate("(1 + 2) * 3")   // value = 9

Clients evaluating many expressions, e.g. a server, should use an Evaluator,
which keeps a pool of scanner/parser machines.

Errors returned by the driver are of type *srcalc.Fault or originate from the
input reader.
*/
package eval

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/srcalc"
	"github.com/npillmayer/srcalc/lexer"
	"github.com/npillmayer/srcalc/parser"
)

// CT traces to the core-tracer.
func CT() tracing.Trace {
	return gtrace.CoreTracer
}

// maxEOI is the number of EOI characters fed after the input is exhausted.
// A pending momentary token, the token in progress and end of input itself
// need at most three calls.
const maxEOI = 3

// Evaluate evaluates an arithmetic expression.
func Evaluate(input string) (int, error) {
	return EvaluateReader(strings.NewReader(input))
}

// EvaluateReader evaluates an arithmetic expression read from input.
func EvaluateReader(input io.RuneReader) (int, error) {
	return newMachine().run(input)
}

// machine bundles a scanner and a parser.
type machine struct {
	sc *lexer.Scanner
	p  *parser.Parser
}

func newMachine() *machine {
	return &machine{
		sc: lexer.New(),
		p:  parser.New(),
	}
}

func (m *machine) reset() {
	m.sc.Reset()
	m.p.Reset()
}

// run evaluates input. A machine has to be reset before it may run again.
func (m *machine) run(input io.RuneReader) (int, error) {
	for {
		r, _, err := input.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			CT().Errorf("eval: reading input: %v", err)
			return 0, err
		}
		if _, done, err := m.feed(r); err != nil {
			return 0, err
		} else if done {
			// cannot happen: the parser accepts on end of input only
			return 0, srcalc.NewFault(srcalc.ErrInternal, "accepted before end of input")
		}
	}
	for i := 0; i < maxEOI; i++ {
		value, done, err := m.feed(lexer.EOI)
		if err != nil {
			return 0, err
		}
		if done {
			CT().Debugf("eval: result = %d", value)
			return value, nil
		}
	}
	return 0, srcalc.NewFault(srcalc.ErrInternal, "no result after end of input").
		InState(m.p.State(), nil)
}

// feed passes a single character to the scanner and a completed token, if
// any, to the parser.
func (m *machine) feed(r rune) (int, bool, error) {
	tok, ok, err := m.sc.Next(r)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	return m.p.Step(tok)
}
