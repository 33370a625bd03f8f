/*
Package lexer implements a character-level scanner for arithmetic expressions.

The scanner is a deterministic finite automaton. Clients feed it one character
at a time and finally EOI, possibly multiple times. Every call returns at most
one token.

   sc := lexer.New()
   for _, r := range input {
       tok, ok, err := sc.Next(r)
       ...
   }
   tok, ok, err := sc.Next(lexer.EOI)

Scanner states come in two flavours. Momentary states (parentheses and
operators) complete their token as soon as they are entered; the token is
handed out on the following call. Accumulating states (digit runs and
identifier runs) extend their token as far as the input allows (maximal munch)
and emit it on the first character not belonging to the run. A character
terminating a token is not part of that token; it is re-classified against the
idle state within the same call, so delimiters directly following a run are
never lost.

The scanner does not care about the order in which characters are fed. It
only classifies the character it is given.
*/
package lexer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/srcalc"
)

// CT traces to the core-tracer.
func CT() tracing.Trace {
	return gtrace.CoreTracer
}

// EOI is fed to Next once input is exhausted.
const EOI rune = -1

// Scanner converts a stream of characters into tokens.
// The zero value is an idle scanner ready for use.
type Scanner struct {
	state  State           // current automaton state
	buffer strings.Builder // characters of the token in progress
	start  int             // position of the first character of the token in progress
	pos    int             // number of characters fed so far
}

// New creates an idle scanner.
func New() *Scanner {
	return &Scanner{}
}

// Reset puts the scanner back into the idle state with an empty buffer.
func (sc *Scanner) Reset() {
	sc.state = Idle
	sc.buffer.Reset()
	sc.start = 0
	sc.pos = 0
}

// State returns the current automaton state.
func (sc *Scanner) State() State {
	return sc.state
}

// Pos returns the number of characters fed so far, not counting EOI.
func (sc *Scanner) Pos() int {
	return sc.pos
}

// Next feeds a character to the scanner. r is either a character of the input
// or EOI. If a token is complete, Next returns it together with true.
//
// An error is returned if a digit run does not fit into an int (ErrOverflow)
// or if the scanner table has no entry for the current state and character
// class (ErrInternal). The latter cannot happen with the built-in table.
func (sc *Scanner) Next(r rune) (srcalc.Token, bool, error) {
	class := Classify(r)
	t := Lookup(sc.state, class)
	if !t.Valid() {
		return srcalc.Token{}, false, sc.hole(class)
	}
	if !t.Emit {
		sc.apply(t, r)
		return srcalc.Token{}, false, nil
	}
	emitting := sc.state
	tok, err := sc.token()
	sc.state = Idle
	sc.buffer.Reset()
	if err != nil {
		return srcalc.Token{}, false, err
	}
	CT().Debugf("scanner: %s --%s--> emit %s", emitting, class, tok)
	if emitting == Idle { // end of input from idle
		return tok, true, nil
	}
	// the terminating character belongs to the next token
	t = Lookup(Idle, class)
	if !t.Valid() {
		return srcalc.Token{}, false, sc.hole(class)
	}
	if !t.Emit { // EOI will be fed again by the caller
		sc.apply(t, r)
	}
	return tok, true, nil
}

func (sc *Scanner) apply(t Transition, r rune) {
	if sc.state == Idle && t.Next != Idle {
		sc.start = sc.pos
	}
	CT().Debugf("scanner: %s --%q--> %s", sc.state, r, t.Next)
	sc.state = t.Next
	if t.Store && r != EOI {
		sc.buffer.WriteRune(r)
	}
	if r != EOI {
		sc.pos++
	}
}

// token creates the token for the current state.
func (sc *Scanner) token() (srcalc.Token, error) {
	kind := sc.state.Token()
	switch sc.state.Kind() {
	case Resting:
		return srcalc.MakeToken(kind, "", sc.pos), nil
	case Momentary:
		return srcalc.MakeToken(kind, kind.String(), sc.start), nil
	}
	text := sc.buffer.String()
	if kind != srcalc.Digits {
		return srcalc.MakeToken(kind, text, sc.start), nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		tok := srcalc.MakeToken(kind, text, sc.start)
		if errors.Is(err, strconv.ErrRange) {
			CT().Errorf("scanner: literal %s out of range", text)
			return tok, srcalc.NewFault(srcalc.ErrOverflow, "integer literal %s out of range", text).At(tok)
		}
		return tok, srcalc.NewFault(srcalc.ErrInternal, "cannot convert digits %q", text).At(tok)
	}
	return srcalc.MakeDigits(n, text, sc.start), nil
}

func (sc *Scanner) hole(class Class) error {
	CT().Errorf("scanner: no transition for (%s, %s)", sc.state, class)
	return srcalc.NewFault(srcalc.ErrInternal, "scanner has no transition for (%s, %s)",
		sc.state, class).InState(int(sc.state), nil)
}
