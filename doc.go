/*
Package srcalc evaluates simple arithmetic expressions with a pair of
cooperating finite state machines.

Description

Input is a flat string of ASCII text consisting of decimal integers, the
binary operators '+' and '*', parentheses and whitespace. The result is a
single integer. Evaluation never builds an expression tree. Instead,

■ a character-level scanner (sub-package lexer) classifies one character at a
time and emits tokens, using a small table of transitions between scanner
states;

■ a table-driven shift-reduce parser (sub-package parser) consumes one token
at a time and drives an explicit state stack and value stack. Reductions
collapse recognized right hand sides of grammar rules and combine their
values on the fly.

The grammar is fixed:

   expr   := expr '+' term | term
   term   := term '*' factor | factor
   factor := '(' expr ')' | digits

Identifiers are recognized by the scanner, but no grammar rule consumes them.
They are reserved for a future extension of the grammar and currently result
in a malformed-input fault.

Faults

The system either produces exactly one integer or stops with a diagnosable
fault. It never silently produces a wrong number. Faults are reported as
errors of type *Fault and may be tested for their kind with errors.Is:

   ErrMalformedInput   token sequence not covered by the parse tables
   ErrOverflow         integer literal or intermediate result out of range
   ErrInternal         scanner or parser tables are inconsistent
   ErrFinished         a parser has already accepted or faulted

Typical Usage

Most clients will just call the driver in sub-package eval:

   result, err := eval.Evaluate("(1 + 2) * 3")

Sub-package grammar describes the same language with the LR tooling of
gorgo (https://github.com/npillmayer/gorgo) and offers an Earley recognizer,
which is used to cross-check the hand-derived tables.

BSD License

Copyright (c) 2021, Norbert Pillmayer

All rights reserved.
Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package srcalc

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// CT traces to the core-tracer.
func CT() tracing.Trace {
	return gtrace.CoreTracer
}
