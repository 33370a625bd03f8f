/*
Package parser implements a table-driven shift-reduce parser for arithmetic
expressions.

The parser does not build a tree. It keeps two explicit stacks: a stack of
control states and a stack of values. Clients hand it one token at a time:

   p := parser.New()
   for {
       tok := ... // next token from the scanner
       result, done, err := p.Step(tok)
       ...
   }

Each call first performs zero or more reductions, then either accepts (on
end of input) or shifts the token. Shifting a token pushes a new control
state and a value: the token's value for digits, zero for all other
terminals. Thus the value stack is always exactly one element shorter than
the state stack.

The tables (see tables.go) contain no entries for malformed input. A table
miss moves the parser into the dead state ErrorState and is reported as
ErrMalformedInput, together with the token classes which would have been
acceptable. Entering ErrorState pushes a placeholder value, so the stack
invariant holds for faulted parsers as well. Once faulted, a parser keeps
returning the same fault until it is reset.
*/
package parser

import (
	"math"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/srcalc"
)

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

// Parser is a shift-reduce parser. Create one with New.
type Parser struct {
	states *arraystack.Stack // control states, bottom is StartState
	values *arraystack.Stack // semantic values, one per symbol above StartState
	fault  error             // sticky fault
	done   bool              // result has been delivered
}

// New creates a parser in its start state.
func New() *Parser {
	p := &Parser{
		states: arraystack.New(),
		values: arraystack.New(),
	}
	p.states.Push(StartState)
	return p
}

// Reset puts the parser back into its start state, discarding any
// intermediate values and faults.
func (p *Parser) Reset() {
	p.states.Clear()
	p.values.Clear()
	p.states.Push(StartState)
	p.fault = nil
	p.done = false
}

// State returns the current control state, i.e. the top of the state stack.
func (p *Parser) State() int {
	return p.top()
}

// Depth returns the height of the state stack.
func (p *Parser) Depth() int {
	return p.states.Size()
}

// Err returns the fault the parser stopped with, if any.
func (p *Parser) Err() error {
	return p.fault
}

// Step consumes a single token. If the token is EndOfInput and the input has
// been accepted, Step returns the result of the evaluation and true.
// Otherwise it returns false, meaning "token consumed, feed the next one".
func (p *Parser) Step(tok srcalc.Token) (int, bool, error) {
	if p.fault != nil {
		return 0, false, p.fault
	}
	if p.done {
		return 0, false, srcalc.NewFault(srcalc.ErrFinished, "parser has already accepted").At(tok)
	}
	for {
		state := p.top()
		action := ActionFor(state, tok.Kind)
		T().Debugf("parser: action(%d, %s) = %s", state, tok.Kind, action)
		switch action.Kind {
		case ReduceAction:
			if err := p.reduce(RuleID(action.Operand), tok); err != nil {
				return 0, false, p.fail(err)
			}
		case AcceptAction:
			return p.accept(tok)
		case ShiftAction:
			p.states.Push(action.Operand)
			if tok.HasValue() {
				p.values.Push(tok.Value)
			} else {
				p.values.Push(0) // placeholder
			}
			return 0, false, nil
		default:
			T().Errorf("parser: unexpected %s in state %d", tok, state)
			f := srcalc.NewFault(srcalc.ErrMalformedInput, "unexpected %s", tok.Kind).At(tok)
			return 0, false, p.fail(f.InState(state, Expected(state)))
		}
	}
}

// reduce pops the right hand side of a rule off both stacks, combines the
// values and pushes the goto state and the combined value.
func (p *Parser) reduce(id RuleID, la srcalc.Token) error {
	rule := rules[id]
	if p.values.Size() < rule.Len {
		return srcalc.NewFault(srcalc.ErrInternal, "stack underflow reducing %q", id).
			At(la).InState(p.top(), nil)
	}
	var rhs [maxRHS]int
	for i := rule.Len - 1; i >= 0; i-- {
		p.states.Pop()
		v, _ := p.values.Pop()
		rhs[i] = v.(int)
	}
	value, f := combine(rule.Op, rhs[:rule.Len])
	if f != nil {
		return f.At(la)
	}
	state := p.top()
	next, ok := GotoFor(state, rule.LHS)
	if !ok {
		return srcalc.NewFault(srcalc.ErrInternal, "no goto for (%d, %s)", state, rule.LHS).
			At(la).InState(state, nil)
	}
	T().Debugf("parser: reduce %q, %v ⇒ %d, goto %d", id, rhs[:rule.Len], value, next)
	p.states.Push(next)
	p.values.Push(value)
	return nil
}

func (p *Parser) accept(tok srcalc.Token) (int, bool, error) {
	p.states.Pop()
	if p.values.Size() != 1 {
		f := srcalc.NewFault(srcalc.ErrInternal, "%d values left on accept", p.values.Size())
		return 0, false, p.fail(f.At(tok).InState(AcceptState, nil))
	}
	v, _ := p.values.Pop()
	p.done = true
	T().Infof("parser: accept, result = %d", v)
	return v.(int), true, nil
}

// fail records a fault and moves the parser into its error state.
func (p *Parser) fail(err error) error {
	p.fault = err
	p.states.Push(ErrorState)
	p.values.Push(0) // placeholder, keeps one value per state above StartState
	return err
}

func (p *Parser) top() int {
	s, ok := p.states.Peek()
	if !ok {
		return ErrorState
	}
	return s.(int)
}

// --- Semantic operations ---------------------------------------------------

func combine(op Op, v []int) (int, *srcalc.Fault) {
	switch op {
	case OpSum:
		return add(v[0], v[2])
	case OpProduct:
		return mul(v[0], v[2])
	case OpPass:
		return v[0], nil
	case OpGroup:
		return v[1], nil
	case OpEmpty:
		return 0, nil
	}
	return 0, srcalc.NewFault(srcalc.ErrInternal, "unknown operation %d", op)
}

func add(a, b int) (int, *srcalc.Fault) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, srcalc.NewFault(srcalc.ErrOverflow, "%d + %d out of range", a, b)
	}
	return s, nil
}

func mul(a, b int) (int, *srcalc.Fault) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, srcalc.NewFault(srcalc.ErrOverflow, "%d * %d out of range", a, b)
	}
	return p, nil
}
