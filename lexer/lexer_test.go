package lexer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/srcalc"
)

// scanAll feeds input front to back and collects tokens up to and including
// EndOfInput.
func scanAll(t *testing.T, input string) ([]srcalc.Token, error) {
	sc := New()
	var toks []srcalc.Token
	feed := func(r rune) error {
		tok, ok, err := sc.Next(r)
		if err != nil {
			return err
		}
		if ok {
			toks = append(toks, tok)
		}
		return nil
	}
	for _, r := range input {
		if err := feed(r); err != nil {
			return toks, err
		}
	}
	for i := 0; i < 3; i++ {
		if err := feed(EOI); err != nil {
			return toks, err
		}
		if len(toks) > 0 && toks[len(toks)-1].Kind == srcalc.EndOfInput {
			return toks, nil
		}
	}
	t.Fatalf("scanner did not produce end of input for %q", input)
	return nil, nil
}

func kinds(toks []srcalc.Token) string {
	s := ""
	for i, tok := range toks {
		if i > 0 {
			s += " "
		}
		s += tok.Kind.String()
	}
	return s
}

func TestTokens(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	inputs := []struct {
		input string
		kinds string
	}{
		{"", "<eoi>"},
		{"   ", "<eoi>"},
		{"42", "digits <eoi>"},
		{"1+2", "digits + digits <eoi>"},
		{"(1 + 2) * 3", "( digits + digits ) * digits <eoi>"},
		{"((7))", "( ( digits ) ) <eoi>"},
		{"12*", "digits * <eoi>"},
		{"x1 + y", "id + id <eoi>"},
		{"3abc", "digits id <eoi>"},
		{"abc3", "id <eoi>"},
		{"+*", "+ * <eoi>"},
	}
	for i, x := range inputs {
		toks, err := scanAll(t, x.input)
		if err != nil {
			t.Fatalf("input #%d %q: unexpected error: %v", i, x.input, err)
		}
		if k := kinds(toks); k != x.kinds {
			t.Errorf("input #%d %q: expected tokens [%s], have [%s]", i, x.input, x.kinds, k)
		}
	}
}

func TestMaximalMunch(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	toks, err := scanAll(t, "1234)+ 56789")
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 5 {
		t.Fatalf("expected 5 tokens, have %d: %v", len(toks), toks)
	}
	if toks[0].Value != 1234 || toks[0].Text != "1234" || toks[0].Pos != 0 {
		t.Errorf("expected first token to be 1234 at 0, is %v", toks[0])
	}
	if toks[1].Kind != srcalc.RParen || toks[1].Pos != 4 {
		t.Errorf("expected ')' at 4 directly following the digit run, is %v", toks[1])
	}
	if toks[2].Kind != srcalc.Plus || toks[2].Pos != 5 {
		t.Errorf("expected '+' at 5, is %v", toks[2])
	}
	if toks[3].Value != 56789 || toks[3].Pos != 7 {
		t.Errorf("expected 56789 at 7, is %v", toks[3])
	}
	if toks[4].Pos != 12 {
		t.Errorf("expected end of input at 12, is %v", toks[4])
	}
}

func TestIdentifierText(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	toks, err := scanAll(t, "ab12c*d")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != srcalc.Id || toks[0].Text != "ab12c" {
		t.Errorf("expected identifier ab12c, is %v", toks[0])
	}
	if toks[2].Kind != srcalc.Id || toks[2].Text != "d" {
		t.Errorf("expected identifier d at end of input, is %v", toks[2])
	}
}

func TestOverflow(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	_, err := scanAll(t, "1 + 99999999999999999999999999")
	if err == nil {
		t.Fatalf("expected overflow error for large literal")
	}
	if !errors.Is(err, srcalc.ErrOverflow) {
		t.Errorf("expected ErrOverflow, have %v", err)
	}
}

func TestEndOfInputRepeats(t *testing.T) {
	sc := New()
	for i := 0; i < 3; i++ {
		tok, ok, err := sc.Next(EOI)
		if err != nil || !ok || tok.Kind != srcalc.EndOfInput {
			t.Fatalf("call #%d: expected end of input, have %v, %v, %v", i, tok, ok, err)
		}
	}
}

func TestMomentaryStatesEmitOnNextCall(t *testing.T) {
	sc := New()
	if _, ok, _ := sc.Next('('); ok {
		t.Fatalf("expected '(' to be held until the next call")
	}
	if sc.State().Kind() != Momentary {
		t.Errorf("expected momentary state after '(', is %s", sc.State())
	}
	tok, ok, err := sc.Next('7')
	if err != nil || !ok || tok.Kind != srcalc.LParen {
		t.Fatalf("expected '(' on next call, have %v, %v, %v", tok, ok, err)
	}
	if sc.State() != DigitRun {
		t.Errorf("expected '7' to be re-classified into a digit run, state is %s", sc.State())
	}
}

func TestLookupIsPure(t *testing.T) {
	for s := State(0); int(s) < numStates; s++ {
		for c := Class(0); int(c) < numClasses; c++ {
			t1, t2 := Lookup(s, c), Lookup(s, c)
			if t1 != t2 {
				t.Errorf("lookup(%s, %s) not deterministic", s, c)
			}
			if !t1.Valid() {
				t.Errorf("table hole at (%s, %s)", s, c)
			}
			if t1.Emit && t1.Next != Idle {
				t.Errorf("emitting transition at (%s, %s) does not return to idle", s, c)
			}
		}
	}
	if Lookup(State(numStates), ClassEOI).Valid() {
		t.Errorf("expected lookup of an unknown state to be invalid")
	}
}

func TestClassify(t *testing.T) {
	samples := map[rune]Class{
		EOI: ClassEOI, '(': ClassLParen, ')': ClassRParen, '+': ClassPlus,
		'*': ClassTimes, '0': ClassDigit, '9': ClassDigit, 'a': ClassLetter,
		'Z': ClassLetter, ' ': ClassOther, '\t': ClassOther, 'é': ClassOther,
		'-': ClassOther,
	}
	for r, c := range samples {
		if cl := Classify(r); cl != c {
			t.Errorf("expected class of %q to be %s, is %s", r, c, cl)
		}
	}
}

func ExampleScanner() {
	sc := New()
	for _, r := range "(12+3)" {
		if tok, ok, _ := sc.Next(r); ok {
			fmt.Println(tok)
		}
	}
	for {
		tok, ok, _ := sc.Next(EOI)
		if ok {
			fmt.Println(tok)
			if tok.Kind == srcalc.EndOfInput {
				break
			}
		}
	}
	// Output:
	// (@0
	// digits(12)@1
	// +@3
	// digits(3)@4
	// )@5
	// <eoi>@6
}
