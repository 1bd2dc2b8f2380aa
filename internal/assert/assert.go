// Package assert evaluates equal/not-equal/matches predicates over resolved
// Variables, producing a pass/fail/broken explanation, grounded on the
// teacher's assert.go (runAssertions) structural-equality style.
package assert

import (
	"regexp"

	"github.com/blackcoderx/cannon/internal/cannonerr"
	"github.com/blackcoderx/cannon/internal/value"
	"github.com/blackcoderx/cannon/internal/varscope"
)

// Variable is the tagged reference type Variables resolve against a Context
// (spec §3). Literal yields itself; Template renders against the Context;
// Path walks nested Objects/arrays.
type Variable interface {
	Resolve(ctx *varscope.Context) (value.Value, error)
}

type Literal struct{ Value value.Value }

func (l Literal) Resolve(*varscope.Context) (value.Value, error) { return l.Value, nil }

type Template struct{ Source string }

// Resolve renders the template against ctx. A render failure (bad syntax
// or a reference to a variable that was never set) is a programmer error,
// not a runtime data-availability problem the way a missing Path segment
// is, so it panics rather than surfacing as a resolvable ValueNotFound
// (§7: "Template render errors ... propagate a panic").
func (t Template) Resolve(ctx *varscope.Context) (value.Value, error) {
	rendered, err := ctx.Apply(t.Source)
	if err != nil {
		panic(err)
	}
	return value.String(rendered), nil
}

type PathVar struct{ Path varscope.Path }

func (p PathVar) Resolve(ctx *varscope.Context) (value.Value, error) {
	v, ok := ctx.FindPath(p.Path)
	if !ok {
		return value.Nil, cannonerr.ValueNotFoundf("path %v not found", []string(p.Path))
	}
	return v, nil
}

// Function is the tagged AssertFunction union (spec §3).
type Function interface {
	Evaluate(ctx *varscope.Context) (bool, error)
}

type Equal struct{ A, B Variable }

func (f Equal) Evaluate(ctx *varscope.Context) (bool, error) {
	a, err := f.A.Resolve(ctx)
	if err != nil {
		return false, err
	}
	b, err := f.B.Resolve(ctx)
	if err != nil {
		return false, err
	}
	return value.Equal(a, b), nil
}

type NotEqual struct{ A, B Variable }

func (f NotEqual) Evaluate(ctx *varscope.Context) (bool, error) {
	a, err := f.A.Resolve(ctx)
	if err != nil {
		return false, err
	}
	b, err := f.B.Resolve(ctx)
	if err != nil {
		return false, err
	}
	return !value.Equal(a, b), nil
}

// Matches requires its operand to resolve to a Scalar string; any other
// kind yields AssertionFailed("Unsupported value type ..."), per §4.4.
type Matches struct {
	Operand Variable
	Pattern *regexp.Regexp
}

func (f Matches) Evaluate(ctx *varscope.Context) (bool, error) {
	v, err := f.Operand.Resolve(ctx)
	if err != nil {
		return false, err
	}
	s, ok := v.AsString()
	if !ok {
		return false, cannonerr.AssertionFailedf("Unsupported value type for Matches: %s", v.TypeName())
	}
	return f.Pattern.MatchString(s), nil
}

// Assertion wraps a templated message and an AssertFunction (spec §3).
type Assertion struct {
	Message  string
	Function Function
}

// Outcome is the result of evaluating one Assertion: the rendered message
// plus a status, following §4.4 ("Assertion failure is not fatal ...
// resolution errors produce Broken").
type Outcome struct {
	Message string
	Status  Status
}

type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusBroken
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	case StatusBroken:
		return "Broken"
	default:
		return "Unknown"
	}
}

// Evaluate renders the Assertion's message and runs its predicate. Per §7,
// a message render failure is the engine's single fatal class and panics;
// only resolution failures against runtime data (ValueNotFound) produce a
// Broken step.
func Evaluate(a Assertion, ctx *varscope.Context) Outcome {
	message, err := ctx.Apply(a.Message)
	if err != nil {
		panic(err)
	}

	passed, err := a.Function.Evaluate(ctx)
	if err != nil {
		// An AssertionFailed (e.g. Matches against a non-string operand) is
		// an assertion failure, not a resolution error: it reports Failed.
		// Anything else (ValueNotFound from a Path/Variable lookup) is a
		// resolution error and reports Broken, per §4.4.
		if cannonerr.Is(err, cannonerr.AssertionFailed) {
			return Outcome{Message: message, Status: StatusFailed}
		}
		return Outcome{Message: message, Status: StatusBroken}
	}
	if !passed {
		return Outcome{Message: message, Status: StatusFailed}
	}
	return Outcome{Message: message, Status: StatusPassed}
}
