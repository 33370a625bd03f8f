package lexer

import (
	"strconv"

	"github.com/npillmayer/srcalc"
)

// State is a position in the character classification automaton.
type State int8

// Scanner states. Idle is the start state; every other state is entered from
// Idle on the first character of a token.
const (
	Idle State = iota
	OpenParen
	CloseParen
	PlusSign
	TimesSign
	DigitRun
	IdentRun
	numStates = iota
)

var stateNames = [...]string{"idle", "open-paren", "close-paren", "plus", "times",
	"digit-run", "identifier-run"}

func (s State) String() string {
	if s < 0 || int(s) >= numStates {
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// StateKind tags scanner states by the way they complete a token.
type StateKind int8

const (
	// Resting is the kind of Idle: no token in progress.
	Resting StateKind = iota
	// Momentary states complete their token on entry. The token is handed
	// out with the next call, regardless of the next character.
	Momentary
	// Accumulating states buffer characters and emit only when the run ends.
	Accumulating
)

// Kind returns the kind of a scanner state.
func (s State) Kind() StateKind {
	return stateKinds[s]
}

// Token returns the class of the token a state emits.
// For Idle this is EndOfInput.
func (s State) Token() srcalc.TokenKind {
	return stateTokens[s]
}

var stateKinds = [numStates]StateKind{
	Idle:       Resting,
	OpenParen:  Momentary,
	CloseParen: Momentary,
	PlusSign:   Momentary,
	TimesSign:  Momentary,
	DigitRun:   Accumulating,
	IdentRun:   Accumulating,
}

var stateTokens = [numStates]srcalc.TokenKind{
	Idle:       srcalc.EndOfInput,
	OpenParen:  srcalc.LParen,
	CloseParen: srcalc.RParen,
	PlusSign:   srcalc.Plus,
	TimesSign:  srcalc.Times,
	DigitRun:   srcalc.Digits,
	IdentRun:   srcalc.Id,
}

// Class is an input character class.
type Class int8

// Character classes. ClassEOI stands for the end of input.
const (
	ClassEOI Class = iota
	ClassLParen
	ClassRParen
	ClassPlus
	ClassTimes
	ClassDigit
	ClassLetter
	ClassOther
	numClasses = iota
)

var classNames = [...]string{"EOI", "(", ")", "+", "*", "digit", "letter", "other"}

func (c Class) String() string {
	if c < 0 || int(c) >= numClasses {
		return "class(" + strconv.Itoa(int(c)) + ")"
	}
	return classNames[c]
}

// Classify returns the character class of r. EOI maps to ClassEOI.
func Classify(r rune) Class {
	switch {
	case r == EOI:
		return ClassEOI
	case r == '(':
		return ClassLParen
	case r == ')':
		return ClassRParen
	case r == '+':
		return ClassPlus
	case r == '*':
		return ClassTimes
	case r >= '0' && r <= '9':
		return ClassDigit
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return ClassLetter
	}
	return ClassOther
}

// Transition is an entry of the scanner table.
//
// If Emit is set, the token of the current state is complete and the
// triggering character has to be re-classified against Idle. Otherwise the
// scanner moves to Next and, if Store is set, appends the character to its
// token buffer.
type Transition struct {
	Next  State
	Emit  bool
	Store bool
	valid bool
}

// Valid is false for table holes.
func (t Transition) Valid() bool {
	return t.valid
}

func enter(s State, store bool) Transition {
	return Transition{Next: s, Store: store, valid: true}
}

var emitToken = Transition{Next: Idle, Emit: true, valid: true}

// Lookup returns the transition for a pair of state and character class.
// It is a pure function of its arguments.
func Lookup(s State, c Class) Transition {
	if s < 0 || int(s) >= numStates || c < 0 || int(c) >= numClasses {
		return Transition{}
	}
	return transitions[s][c]
}

var transitions = [numStates][numClasses]Transition{
	Idle: {
		ClassEOI:    emitToken,
		ClassLParen: enter(OpenParen, false),
		ClassRParen: enter(CloseParen, false),
		ClassPlus:   enter(PlusSign, false),
		ClassTimes:  enter(TimesSign, false),
		ClassDigit:  enter(DigitRun, true),
		ClassLetter: enter(IdentRun, true),
		ClassOther:  enter(Idle, false),
	},
	OpenParen:  momentary(),
	CloseParen: momentary(),
	PlusSign:   momentary(),
	TimesSign:  momentary(),
	DigitRun: {
		ClassEOI:    emitToken,
		ClassLParen: emitToken,
		ClassRParen: emitToken,
		ClassPlus:   emitToken,
		ClassTimes:  emitToken,
		ClassDigit:  enter(DigitRun, true),
		ClassLetter: emitToken,
		ClassOther:  emitToken,
	},
	IdentRun: {
		ClassEOI:    emitToken,
		ClassLParen: emitToken,
		ClassRParen: emitToken,
		ClassPlus:   emitToken,
		ClassTimes:  emitToken,
		ClassDigit:  enter(IdentRun, true),
		ClassLetter: enter(IdentRun, true),
		ClassOther:  emitToken,
	},
}

func momentary() [numClasses]Transition {
	var row [numClasses]Transition
	for c := range row {
		row[c] = emitToken
	}
	return row
}
