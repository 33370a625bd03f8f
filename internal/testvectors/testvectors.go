/*
Package testvectors reads test vectors for expression evaluation.

Test vectors are YAML documents of the form

   cases:
     - name: precedence
       input: "1 + 2 * 3"
       want: 7
     - input: "1 + * 2"
       fault: malformed

Every case names either an expected value or an expected fault, but not both.
Known faults are "malformed", "overflow" and "internal".
*/
package testvectors

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/npillmayer/srcalc"
	"gopkg.in/yaml.v3"
)

// Case is a single test vector.
type Case struct {
	Name  string `yaml:"name,omitempty"`
	Input string `yaml:"input"`
	Want  *int   `yaml:"want,omitempty"`
	Fault string `yaml:"fault,omitempty"`
	Line  int    `yaml:"-"` // line in the source document
}

type document struct {
	Cases []yaml.Node `yaml:"cases"`
}

var faultKinds = map[string]error{
	"malformed": srcalc.ErrMalformedInput,
	"overflow":  srcalc.ErrOverflow,
	"internal":  srcalc.ErrInternal,
}

// ErrInvalidCase flags a test vector which is not well-formed.
var ErrInvalidCase = errors.New("invalid test vector")

// Parse reads test vectors from a YAML document.
func Parse(r io.Reader) ([]Case, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	cases := make([]Case, 0, len(doc.Cases))
	for i := range doc.Cases {
		node := &doc.Cases[i]
		if err := checkFields(node); err != nil {
			return nil, err
		}
		var c Case
		if err := node.Decode(&c); err != nil {
			return nil, err
		}
		c.Line = node.Line
		if c.Name == "" {
			c.Name = fmt.Sprintf("case-%d", i+1)
		}
		if (c.Want == nil) == (c.Fault == "") {
			return nil, fmt.Errorf("%w at line %d: need exactly one of 'want' or 'fault'",
				ErrInvalidCase, c.Line)
		}
		if _, ok := faultKinds[c.Fault]; c.Fault != "" && !ok {
			return nil, fmt.Errorf("%w at line %d: unknown fault %q", ErrInvalidCase, c.Line, c.Fault)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

var knownFields = map[string]bool{"name": true, "input": true, "want": true, "fault": true}

// checkFields rejects misspelled keys, which would silently turn a
// case into one without expectation.
func checkFields(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w at line %d: expected a mapping", ErrInvalidCase, node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if key := node.Content[i]; !knownFields[key.Value] {
			return fmt.Errorf("%w at line %d: unknown field %q", ErrInvalidCase, key.Line, key.Value)
		}
	}
	return nil
}

// Load reads test vectors from a YAML file.
func Load(filename string) ([]Case, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cases, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cases, nil
}

// Path returns the path of a test vector file bundled with this package.
func Path(file string) string {
	_, pkgdir, _, ok := runtime.Caller(0)
	if !ok {
		panic("no debug info")
	}
	return filepath.Join(filepath.Dir(pkgdir), "testdata", file)
}

// Check compares the outcome of an evaluation with the expectation of c.
// It returns nil if they match.
func (c Case) Check(value int, err error) error {
	if c.Fault != "" {
		if err == nil {
			return fmt.Errorf("%s: expected %s fault, have value %d", c.Name, c.Fault, value)
		}
		if !errors.Is(err, faultKinds[c.Fault]) {
			return fmt.Errorf("%s: expected %s fault, have %v", c.Name, c.Fault, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: expected %d, have error %v", c.Name, *c.Want, err)
	}
	if value != *c.Want {
		return fmt.Errorf("%s: expected %d, have %d", c.Name, *c.Want, value)
	}
	return nil
}
