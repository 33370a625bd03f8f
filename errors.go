package srcalc

import (
	"errors"
	"fmt"
	"strings"
)

// Fault kinds. Errors returned by the scanner, the parser and the driver
// wrap exactly one of these.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrOverflow       = errors.New("integer overflow")
	ErrInternal       = errors.New("internal inconsistency")
	ErrFinished       = errors.New("evaluation already finished")
)

// NoState is used for faults which do not originate in the parser.
const NoState = -1

// Fault is a diagnosable stop of an evaluation.
type Fault struct {
	Kind     error       // one of the ErrXXX sentinels
	Token    *Token      // offending token, if any
	State    int         // parser or scanner state at the time of the fault, or NoState
	Expected []TokenKind // token classes acceptable in State, if known
	Msg      string
}

// NewFault creates a fault of kind k, which has to be one of the sentinels.
func NewFault(k error, msg string, params ...interface{}) *Fault {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	CT().Debugf("fault: %v: %s", k, msg)
	return &Fault{Kind: k, State: NoState, Msg: msg}
}

// At attaches an offending token to a fault.
func (f *Fault) At(tok Token) *Fault {
	f.Token = &tok
	return f
}

// InState attaches state information to a fault.
func (f *Fault) InState(state int, expected []TokenKind) *Fault {
	f.State = state
	f.Expected = expected
	return f
}

func (f *Fault) Error() string {
	var b strings.Builder
	b.WriteString(f.Kind.Error())
	if f.Msg != "" {
		b.WriteString(": ")
		b.WriteString(f.Msg)
	}
	if f.Token != nil {
		fmt.Fprintf(&b, " at %s", f.Token)
	}
	if f.State != NoState {
		fmt.Fprintf(&b, " in state %d", f.State)
	}
	if len(f.Expected) > 0 {
		b.WriteString(", expected one of")
		for _, k := range f.Expected {
			fmt.Fprintf(&b, " %q", k.String())
		}
	}
	return b.String()
}

// Unwrap makes faults comparable with errors.Is.
func (f *Fault) Unwrap() error {
	return f.Kind
}
