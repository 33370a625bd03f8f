/*
Package grammar holds the expression grammar in a form suitable for gorgo.

The parse engine in package parser runs on hand-derived tables. This package
states the very same grammar declaratively, using gorgo's grammar builder, and
offers an Earley recognizer on top of it. It serves two purposes: it documents
the grammar in a machine-checkable way, and it is an independent oracle for
testing the tables.

   Start  ➞ Expr
   Expr   ➞ Expr + Term  |  Term
   Term   ➞ Term * Factor  |  Factor
   Factor ➞ ( Expr )  |  digits

Empty input, which the tables accept as the expression 0, is not part of the
gorgo grammar. Recognize handles it before starting the Earley parser.
*/
package grammar

import (
	"io"
	"strings"
	"sync"

	"github.com/npillmayer/gorgo/lr"
	"github.com/npillmayer/gorgo/lr/earley"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/srcalc"
)

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

// --- Initialization --------------------------------------------------------

var globalAnalysis *lr.LRAnalysis

var initGrammar sync.Once

// Analysis returns the (shared) grammar analysis, creating it on first use.
func Analysis() *lr.LRAnalysis {
	initGrammar.Do(func() {
		globalAnalysis = New()
	})
	return globalAnalysis
}

// New creates a new grammar analysis for arithmetic expressions. Clients
// usually call Analysis instead, which returns a shared instance.
func New() *lr.LRAnalysis {
	b := lr.NewGrammarBuilder("srcalc")
	b.LHS("Start").N("Expr").End()
	b.LHS("Expr").N("Expr").T(tk(srcalc.Plus)).N("Term").End()
	b.LHS("Expr").N("Term").End()
	b.LHS("Term").N("Term").T(tk(srcalc.Times)).N("Factor").End()
	b.LHS("Term").N("Factor").End()
	b.LHS("Factor").T(tk(srcalc.LParen)).N("Expr").T(tk(srcalc.RParen)).End()
	b.LHS("Factor").T(tk(srcalc.Digits)).End()
	g, err := b.Grammar()
	if err != nil {
		panic(err)
	}
	return lr.Analysis(g)
}

func tk(kind srcalc.TokenKind) (string, int) {
	return kind.String(), int(kind)
}

// Dump traces the grammar rules.
func Dump() {
	Analysis().Grammar().Dump()
}

// --- Recognition -----------------------------------------------------------

// Recognize reports whether input is a well-formed expression. Scanner
// faults, like integer literals out of range, are returned as errors;
// syntax errors are not.
func Recognize(input string) (bool, error) {
	return RecognizeReader(strings.NewReader(input))
}

// RecognizeReader is like Recognize, but reads its input from a RuneReader.
func RecognizeReader(input io.RuneReader) (bool, error) {
	tz := NewTokenizer(input)
	parser := earley.NewParser(Analysis())
	accept, err := parser.Parse(tz, nil)
	if tz.Err() != nil {
		return false, tz.Err()
	}
	if !accept && tz.Count() == 1 && tz.last.Kind == srcalc.EndOfInput {
		T().Debugf("grammar: empty input")
		return true, nil
	}
	if err != nil { // the Earley parser reports unexpected tokens as errors
		T().Debugf("grammar: %v", err)
		return false, nil
	}
	T().Debugf("grammar: recognized = %v", accept)
	return accept, nil
}
