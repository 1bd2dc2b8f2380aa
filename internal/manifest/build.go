package manifest

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/blackcoderx/cannon/internal/assert"
	"github.com/blackcoderx/cannon/internal/capture"
	"github.com/blackcoderx/cannon/internal/cannonerr"
	"github.com/blackcoderx/cannon/internal/durfmt"
	"github.com/blackcoderx/cannon/internal/job"
	"github.com/blackcoderx/cannon/internal/operation"
	"github.com/blackcoderx/cannon/internal/value"
	"github.com/blackcoderx/cannon/internal/varscope"
)

func build(raw *RawManifest, baseDir string) (*Manifest, error) {
	vars, err := objectFromAny(raw.Vars)
	if err != nil {
		return nil, err
	}

	resources := make(map[string]string, len(raw.Resources))
	for _, r := range raw.Resources {
		resolved, err := resolveResourcePath(r.File, baseDir)
		if err != nil {
			return nil, cannonerr.Syntaxf("resolving resource %q: %v", r.Name, err)
		}
		resources[r.Name] = resolved
	}

	groups := make([]Group, 0, len(raw.Pipeline.Groups))
	for _, rg := range raw.Pipeline.Groups {
		entries := make([]Entry, 0, len(rg.Jobs))
		for _, rp := range rg.Jobs {
			entry, err := buildEntry(rp, baseDir)
			if err != nil {
				return nil, cannonerr.Syntaxf("building entry %q in group %q: %v", rp.Name, rg.Name, err)
			}
			entries = append(entries, entry)
		}
		groups = append(groups, Group{Name: rg.Name, Entries: entries})
	}

	return &Manifest{Name: raw.Name, Vars: vars, Auth: raw.Auth, Groups: groups, Resources: resources}, nil
}

func buildEntry(rp RawPipelineEntry, baseDir string) (Entry, error) {
	body, err := resolveBody(rp.Body, baseDir)
	if err != nil {
		return Entry{}, err
	}

	delay := time.Duration(0)
	if rp.Delay != "" {
		delay, err = durfmt.Parse(rp.Delay)
		if err != nil {
			return Entry{}, err
		}
	}

	repeats := rp.Repeats
	if repeats == 0 {
		repeats = 1
	}

	captures := make([]CaptureBinding, 0, len(rp.Capture))
	for _, rc := range rp.Capture {
		cap, err := buildCapture(rc)
		if err != nil {
			return Entry{}, err
		}
		captures = append(captures, CaptureBinding{Variable: rc.Variable, Capture: cap})
	}

	ops := make([]operation.Operation, 0, len(rp.On))
	for _, ro := range rp.On {
		op, err := buildOperation(ro)
		if err != nil {
			return Entry{}, err
		}
		ops = append(ops, op)
	}

	assertions := make([]assert.Assertion, 0, len(rp.Assert))
	for _, ra := range rp.Assert {
		a, err := buildAssertion(ra)
		if err != nil {
			return Entry{}, err
		}
		assertions = append(assertions, a)
	}

	entryVars, err := objectFromAny(rp.Vars)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name: rp.Name,
		Job: job.Job{
			RequestTemplate: rp.Request,
			Method:          rp.Method,
			Headers:         rp.Headers,
			Body:            body,
		},
		Vars:       entryVars,
		Repeats:    repeats,
		Delay:      delay,
		Captures:   captures,
		Operations: ops,
		Assertions: assertions,
	}, nil
}

// buildCapture resolves the spec's §9 open question per SPEC_FULL.md §4.3:
// Regex captures are implemented, not rejected.
func buildCapture(rc RawCapture) (capture.Capture, error) {
	switch {
	case rc.JSON != nil:
		return capture.JSONPathCapture{Selector: *rc.JSON}, nil
	case rc.Regex != nil:
		pattern, err := regexp.Compile(*rc.Regex)
		if err != nil {
			return nil, cannonerr.Syntaxf("invalid regex capture pattern %q: %v", *rc.Regex, err)
		}
		return capture.RegexCapture{Pattern: pattern}, nil
	default:
		return nil, cannonerr.Syntaxf("capture entry has neither json nor regex selector")
	}
}

func buildVariable(rv RawVariable) (assert.Variable, error) {
	switch {
	case rv.Path != nil:
		return assert.PathVar{Path: varscope.ParsePath(*rv.Path)}, nil
	case rv.Template != nil:
		return assert.Template{Source: *rv.Template}, nil
	default:
		v, err := valueFromAny(rv.Literal)
		if err != nil {
			return nil, err
		}
		return assert.Literal{Value: v}, nil
	}
}

func buildAssertion(ra RawAssertion) (assert.Assertion, error) {
	var fn assert.Function
	switch {
	case ra.Equal != nil:
		a, err := buildVariable(ra.Equal.A)
		if err != nil {
			return assert.Assertion{}, err
		}
		b, err := buildVariable(ra.Equal.B)
		if err != nil {
			return assert.Assertion{}, err
		}
		fn = assert.Equal{A: a, B: b}
	case ra.NotEqual != nil:
		a, err := buildVariable(ra.NotEqual.A)
		if err != nil {
			return assert.Assertion{}, err
		}
		b, err := buildVariable(ra.NotEqual.B)
		if err != nil {
			return assert.Assertion{}, err
		}
		fn = assert.NotEqual{A: a, B: b}
	case ra.Matches != nil:
		operand, err := buildVariable(ra.Matches.Operand)
		if err != nil {
			return assert.Assertion{}, err
		}
		pattern, err := regexp.Compile(ra.Matches.Pattern)
		if err != nil {
			return assert.Assertion{}, cannonerr.Syntaxf("invalid matches pattern %q: %v", ra.Matches.Pattern, err)
		}
		fn = assert.Matches{Operand: operand, Pattern: pattern}
	default:
		return assert.Assertion{}, cannonerr.Syntaxf("assertion %q has no function", ra.Message)
	}
	return assert.Assertion{Message: ra.Message, Function: fn}, nil
}

func buildOperation(ro RawOperation) (operation.Operation, error) {
	switch {
	case ro.Add != nil:
		return buildArith(operation.Add, ro.Add)
	case ro.Sub != nil:
		return buildArith(operation.Sub, ro.Sub)
	case ro.Mul != nil:
		return buildArith(operation.Mul, ro.Mul)
	case ro.Div != nil:
		return buildArith(operation.Div, ro.Div)
	case ro.Mod != nil:
		return buildArith(operation.Mod, ro.Mod)
	case ro.Pow != nil:
		return buildArith(operation.Pow, ro.Pow)
	case ro.PushCsv != nil:
		return operation.PushCsv{Variable: ro.PushCsv.Variable, Path: ro.PushCsv.Path}, nil
	case ro.Console != nil:
		return operation.Console{Template: *ro.Console}, nil
	default:
		return nil, cannonerr.Syntaxf("operation entry has no recognised variant")
	}
}

func buildArith(kind operation.ArithKind, raw *RawArith) (operation.Operation, error) {
	v, err := valueFromAny(raw.Value)
	if err != nil {
		return nil, err
	}
	return operation.Arith{Kind: kind, Variable: raw.Variable, Operand: v}, nil
}

// valueFromAny bridges a generically-decoded YAML/JSON/TOML/HJSON scalar
// (interface{}) into the value model by round-tripping through JSON, the
// same bridge load.go uses for HJSON.
func valueFromAny(x interface{}) (value.Value, error) {
	if x == nil {
		return value.Nil, nil
	}
	data, err := json.Marshal(x)
	if err != nil {
		return value.Nil, cannonerr.Syntaxf("encoding literal value: %v", err)
	}
	return value.FromJSON(data)
}

func objectFromAny(m map[string]interface{}) (*value.Object, error) {
	obj := value.NewObject()
	for k, v := range m {
		val, err := valueFromAny(v)
		if err != nil {
			return nil, err
		}
		obj.Set(k, val)
	}
	return obj, nil
}
