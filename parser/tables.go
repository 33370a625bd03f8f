package parser

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/npillmayer/srcalc"
)

// The parse tables below have been derived by hand from the grammar
//
//    (1) Expr   → Expr + Term
//    (2) Expr   → Term
//    (3) Term   → Term * Factor
//    (4) Term   → Factor
//    (5) Factor → ( Expr )
//    (6) Factor → digits
//    (7) Expr   → ε            (empty input only)
//
// using the standard LR(0) item set construction with SLR(1) lookaheads.
// Package grammar holds the same grammar for gorgo; its Earley recognizer is
// used in tests to cross-check the tables.
//
// CFSM states:
//
//     0  S → .Expr
//     1  S → Expr.           Expr → Expr.+Term
//     2  Expr → Term.        Term → Term.*Factor
//     3  Term → Factor.
//     4  Factor → (.Expr)
//     5  Factor → digits.
//     6  Expr → Expr+.Term
//     7  Term → Term*.Factor
//     8  Factor → (Expr.)    Expr → Expr.+Term
//     9  Expr → Expr+Term.   Term → Term.*Factor
//    10  Term → Term*Factor.
//    11  Factor → (Expr).

// Control states with a special meaning.
const (
	StartState  = 0
	AcceptState = 1
	ErrorState  = 12 // dead state entered on a table miss; it has no table entries
)

// Nonterminal is a grammar symbol on the left hand side of a rule.
type Nonterminal int8

// Nonterminals of the expression grammar.
const (
	Expr Nonterminal = iota
	Term
	Factor
)

func (n Nonterminal) String() string {
	switch n {
	case Expr:
		return "Expr"
	case Term:
		return "Term"
	case Factor:
		return "Factor"
	}
	return "nonterminal(" + strconv.Itoa(int(n)) + ")"
}

// RuleID identifies a grammar rule.
type RuleID int8

// Grammar rules, in the order of the comment above.
const (
	ExprSum RuleID = iota
	ExprTerm
	TermProduct
	TermFactor
	FactorGroup
	FactorDigits
	ExprEmpty
	numRules = iota
)

// Op is the semantic operation performed when a rule is reduced.
type Op int8

// Semantic operations.
const (
	OpSum     Op = iota // add first and third value
	OpProduct           // multiply first and third value
	OpPass              // pass the single value through
	OpGroup             // pass the middle value through
	OpEmpty             // conjure a zero value
)

// Rule is a grammar rule as needed by the parse engine.
type Rule struct {
	LHS  Nonterminal
	Len  int // number of symbols on the right hand side
	Op   Op
	Text string
}

// maxRHS is the longest right hand side of all rules.
const maxRHS = 3

var rules = [numRules]Rule{
	ExprSum:      {Expr, 3, OpSum, "Expr → Expr + Term"},
	ExprTerm:     {Expr, 1, OpPass, "Expr → Term"},
	TermProduct:  {Term, 3, OpProduct, "Term → Term * Factor"},
	TermFactor:   {Term, 1, OpPass, "Term → Factor"},
	FactorGroup:  {Factor, 3, OpGroup, "Factor → ( Expr )"},
	FactorDigits: {Factor, 1, OpPass, "Factor → digits"},
	ExprEmpty:    {Expr, 0, OpEmpty, "Expr → ε"},
}

// RuleFor returns the grammar rule with the given ID.
func RuleFor(id RuleID) Rule {
	return rules[id]
}

func (id RuleID) String() string {
	if id < 0 || int(id) >= numRules {
		return "rule(" + strconv.Itoa(int(id)) + ")"
	}
	return rules[id].Text
}

type cell struct {
	state int
	la    srcalc.TokenKind
}

type gotoCell struct {
	state int
	lhs   Nonterminal
}

const (
	lparen = srcalc.LParen
	rparen = srcalc.RParen
	plus   = srcalc.Plus
	times  = srcalc.Times
	digits = srcalc.Digits
	eoi    = srcalc.EndOfInput
)

// reduceTable maps (state, lookahead) to the rule to reduce.
var reduceTable = map[cell]RuleID{
	{0, eoi}: ExprEmpty,
	//
	{2, plus}: ExprTerm, {2, rparen}: ExprTerm, {2, eoi}: ExprTerm,
	//
	{3, plus}: TermFactor, {3, times}: TermFactor, {3, rparen}: TermFactor, {3, eoi}: TermFactor,
	//
	{5, plus}: FactorDigits, {5, times}: FactorDigits, {5, rparen}: FactorDigits, {5, eoi}: FactorDigits,
	//
	{9, plus}: ExprSum, {9, rparen}: ExprSum, {9, eoi}: ExprSum,
	//
	{10, plus}: TermProduct, {10, times}: TermProduct, {10, rparen}: TermProduct, {10, eoi}: TermProduct,
	//
	{11, plus}: FactorGroup, {11, times}: FactorGroup, {11, rparen}: FactorGroup, {11, eoi}: FactorGroup,
}

// gotoTable maps (state uncovered by a reduction, LHS of the rule) to the
// next control state.
var gotoTable = map[gotoCell]int{
	{0, Expr}: 1, {0, Term}: 2, {0, Factor}: 3,
	{4, Expr}: 8, {4, Term}: 2, {4, Factor}: 3,
	{6, Term}: 9, {6, Factor}: 3,
	{7, Factor}: 10,
}

// shiftTable maps (state, lookahead) to the next control state.
var shiftTable = map[cell]int{
	{0, digits}: 5, {0, lparen}: 4,
	{1, plus}: 6,
	{2, times}: 7,
	{4, digits}: 5, {4, lparen}: 4,
	{6, digits}: 5, {6, lparen}: 4,
	{7, digits}: 5, {7, lparen}: 4,
	{8, plus}: 6, {8, rparen}: 11,
	{9, times}: 7,
}

// ActionKind tags parse actions.
type ActionKind int8

// Parse actions. ErrorAction is the result of every table miss.
const (
	ErrorAction ActionKind = iota
	ShiftAction
	ReduceAction
	AcceptAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	case AcceptAction:
		return "accept"
	}
	return "error"
}

// Action is a parse action. Operand is the target state for shifts and the
// rule for reductions.
type Action struct {
	Kind    ActionKind
	Operand int
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction:
		return fmt.Sprintf("shift %d", a.Operand)
	case ReduceAction:
		return fmt.Sprintf("reduce %q", RuleID(a.Operand))
	}
	return a.Kind.String()
}

// ActionFor returns the action for a control state and a lookahead token
// class. Reductions take precedence over acceptance, acceptance takes
// precedence over shifting.
func ActionFor(state int, la srcalc.TokenKind) Action {
	if r, ok := reduceTable[cell{state, la}]; ok {
		return Action{Kind: ReduceAction, Operand: int(r)}
	}
	if state == AcceptState && la == srcalc.EndOfInput {
		return Action{Kind: AcceptAction}
	}
	if s, ok := shiftTable[cell{state, la}]; ok {
		return Action{Kind: ShiftAction, Operand: s}
	}
	return Action{Kind: ErrorAction}
}

// GotoFor returns the control state to push after a reduction of a rule
// with left hand side lhs has uncovered state. The second return value is
// false for table holes.
func GotoFor(state int, lhs Nonterminal) (int, bool) {
	s, ok := gotoTable[gotoCell{state, lhs}]
	return s, ok
}

// Expected returns all token classes with a non-error action in state.
func Expected(state int) []srcalc.TokenKind {
	var kinds []srcalc.TokenKind
	for k := srcalc.TokenKind(0); int(k) < srcalc.NumTokenKinds; k++ {
		if ActionFor(state, k).Kind != ErrorAction {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// WriteTables writes a human readable listing of the parse tables to w.
func WriteTables(w io.Writer) error {
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	printf("Rules:\n")
	for id := RuleID(0); int(id) < numRules; id++ {
		printf("  (%d) %s\n", id+1, id)
	}
	printf("Actions:\n")
	for state := StartState; state < ErrorState; state++ {
		for k := srcalc.TokenKind(0); int(k) < srcalc.NumTokenKinds; k++ {
			if a := ActionFor(state, k); a.Kind != ErrorAction {
				printf("  %2d %-8s %s\n", state, k, a)
			}
		}
	}
	printf("Gotos:\n")
	cells := make([]gotoCell, 0, len(gotoTable))
	for c := range gotoTable {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].state != cells[j].state {
			return cells[i].state < cells[j].state
		}
		return cells[i].lhs < cells[j].lhs
	})
	for _, c := range cells {
		printf("  %2d %-8s %d\n", c.state, c.lhs, gotoTable[c])
	}
	return err
}
