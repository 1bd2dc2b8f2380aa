// Package operation implements post-job side effects over a Context:
// arithmetic, CSV append, and console echo, grounded on
// original_source/src/app/operation.rs's math and output modules.
package operation

import (
	"encoding/csv"
	"math"
	"os"

	"github.com/blackcoderx/cannon/internal/cannonerr"
	"github.com/blackcoderx/cannon/internal/value"
	"github.com/blackcoderx/cannon/internal/varscope"
)

// Operation is the tagged union of post-job side effects (spec §3/§4.5).
// Operations run after captures and assertions of a repeat, and their
// mutations are visible to subsequent repeats of the same job.
type Operation interface {
	Perform(ctx *varscope.Context) error
}

// Arith covers Add/Sub/Mul/Div/Mod/Pow, which all share the same shape:
// a named variable and an operand Value, replacing the variable in place.
type Arith struct {
	Kind     ArithKind
	Variable string
	Operand  value.Value
}

type ArithKind int

const (
	Add ArithKind = iota
	Sub
	Mul
	Div
	Mod
	Pow
)

func (a Arith) Perform(ctx *varscope.Context) error {
	current, ok := ctx.FindPath(varscope.Path{a.Variable})
	if !ok {
		return cannonerr.ValueNotFoundf("variable %q not found", a.Variable)
	}

	lhs, lhsOK := current.AsFloat()
	rhs, rhsOK := a.Operand.AsFloat()
	if !lhsOK || !rhsOK {
		return cannonerr.IncorrectValueTypef(current.TypeName())
	}

	var result float64
	switch a.Kind {
	case Add:
		result = lhs + rhs
	case Sub:
		result = lhs - rhs
	case Mul:
		result = lhs * rhs
	case Div:
		if rhs == 0 {
			return cannonerr.Internalf("division by zero in operation on %q", a.Variable)
		}
		result = lhs / rhs
	case Mod:
		if rhs == 0 {
			return cannonerr.Internalf("modulo by zero in operation on %q", a.Variable)
		}
		result = math.Mod(lhs, rhs)
	case Pow:
		// Operands are coerced to unsigned integers; negative or
		// fractional input yields Internal, per §4.5.
		if lhs < 0 || rhs < 0 || lhs != math.Trunc(lhs) || rhs != math.Trunc(rhs) {
			return cannonerr.Internalf("pow requires non-negative integer operands, got %g, %g", lhs, rhs)
		}
		result = math.Pow(lhs, rhs)
	}

	if result == math.Trunc(result) {
		ctx.SetVar(a.Variable, value.Int(int64(result)))
	} else {
		ctx.SetVar(a.Variable, value.Float(result))
	}
	return nil
}

// PushCsv serialises the current value at Variable to Path, per §4.5:
// header row written iff the file does not yet exist; Scalar -> single
// cell; Array -> one row per element; Object -> one row of values in map
// order; any other kind -> no-op. Grounded on the original's csv crate
// usage (append+create+flush), expressed over stdlib encoding/csv.
type PushCsv struct {
	Variable string
	Path     string
}

func (p PushCsv) Perform(ctx *varscope.Context) error {
	v, ok := ctx.FindPath(varscope.Path{p.Variable})
	if !ok {
		return cannonerr.ValueNotFoundf("variable %q not found", p.Variable)
	}
	return writeCSV(p.Path, p.Variable, v)
}

// writeCSV serialises v to path. header is the variable name that produced
// v; it is written as the header column for the Scalar and Array cases,
// matching the original's push_csv (original_source/src/app/operation.rs)
// which takes the variable name as its header argument rather than a fixed
// label. Object values use their own keys as the header row instead.
func writeCSV(path, header string, v value.Value) error {
	if v.Kind() == value.KindNil {
		return nil
	}

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return cannonerr.Internalf("opening csv %q: %v", path, err)
	}
	defer f.Close()

	var rows [][]string
	switch v.Kind() {
	case value.KindArray:
		arr, _ := v.AsArray()
		if writeHeader {
			rows = append(rows, []string{header})
		}
		for _, item := range arr {
			rows = append(rows, []string{item.String()})
		}
	case value.KindObject:
		obj, _ := v.AsObject()
		if writeHeader {
			rows = append(rows, obj.Keys())
		}
		var row []string
		for _, k := range obj.Keys() {
			cell, _ := obj.Get(k)
			row = append(row, cell.String())
		}
		rows = append(rows, row)
	default:
		if writeHeader {
			rows = append(rows, []string{header})
		}
		rows = append(rows, []string{v.String()})
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return cannonerr.Internalf("writing csv %q: %v", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return cannonerr.Internalf("flushing csv %q: %v", path, err)
	}
	return f.Sync()
}

// Console renders Template against the Context and emits one line, per
// §4.5. A render failure is the engine's single fatal class (§7) and
// panics rather than being logged and skipped like other operation
// failures.
type Console struct {
	Template string
}

func (c Console) Perform(ctx *varscope.Context) error {
	rendered, err := ctx.Apply(c.Template)
	if err != nil {
		panic(err)
	}
	_, err = os.Stdout.WriteString(rendered + "\n")
	return err
}
