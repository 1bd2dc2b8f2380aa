// Package value implements the engine's tagged value model: nil, scalar
// (int/float/bool/string), array, and object, with structural equality and
// conversions from JSON and from HTTP header maps.
package value

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindArray
	KindObject
)

// Value is the engine's canonical tagged union. Exactly one of the typed
// fields is meaningful, selected by Kind; Array and Object hold nested
// Values so the type forms a tree with no cycles.
type Value struct {
	kind   Kind
	i      int64
	f      float64
	b      bool
	s      string
	arr    []Value
	obj    *Object
}

// Object is an ordered string-keyed map of Value, preserving insertion order
// so that operations like PushCsv can emit cells in a deterministic order.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Nil is the absence-of-value Value.
var Nil = Value{kind: KindNil}

func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Array(items []Value) Value {
	if len(items) == 0 {
		return Nil
	}
	return Value{kind: KindArray, arr: items}
}
func Obj(o *Object) Value { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind { return v.kind }

// TypeName returns a human tag used in error messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int64(v.f), true
	default:
		return 0, false
	}
}

// AsFloat returns a float64 view for any numeric Value.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Equal implements the value model's structural equality.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		// int/float cross-kind numeric equality is intentionally excluded:
		// the model distinguishes them, matching JSON round-trip fidelity.
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.keys {
			av := a.obj.values[k]
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromJSON converts a parsed JSON payload (as produced by json.Unmarshal into
// interface{}) into the value model. Numbers prefer a signed 64-bit
// representation when exactly representable, else fall back to float64.
// A JSON array of length 1 collapses to its single element; an empty array
// collapses to Nil; per §4.1.
func FromJSON(raw []byte) (Value, error) {
	var x interface{}
	if err := json.Unmarshal(raw, &x); err != nil {
		return Nil, err
	}
	return fromAny(x), nil
}

func fromAny(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		return numberFromString(string(t))
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t))
		}
		return Float(t)
	case []interface{}:
		return collapseArray(t)
	case map[string]interface{}:
		o := NewObject()
		for _, k := range sortedKeys(t) {
			o.Set(k, fromAny(t[k]))
		}
		return Obj(o)
	default:
		return Nil
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func numberFromString(s string) Value {
	var i int64
	if _, err := fmt.Sscanf(s, "%d", &i); err == nil && fmt.Sprintf("%d", i) == s {
		return Int(i)
	}
	var f float64
	fmt.Sscanf(s, "%g", &f)
	return Float(f)
}

func collapseArray(items []interface{}) Value {
	if len(items) == 0 {
		return Nil
	}
	values := make([]Value, len(items))
	for i, it := range items {
		values[i] = fromAny(it)
	}
	if len(values) == 1 {
		return values[0]
	}
	return Value{kind: KindArray, arr: values}
}

// FromHeaders converts an HTTP header-style map into an Object of
// lowercase-preserving keys and UTF-8 scalar string values.
func FromHeaders(headers map[string][]string) Value {
	o := NewObject()
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vs := headers[k]
		joined := ""
		for i, v := range vs {
			if i > 0 {
				joined += ", "
			}
			joined += v
		}
		o.Set(k, String(joined))
	}
	return Obj(o)
}

// ToJSON renders a Value back to JSON bytes, the inverse of FromJSON.
func ToJSON(v Value) ([]byte, error) {
	return json.Marshal(toAny(v))
}

func toAny(v Value) interface{} {
	switch v.kind {
	case KindNil:
		return nil
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			out[i] = toAny(item)
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, v.obj.Len())
		for _, k := range v.obj.keys {
			out[k] = toAny(v.obj.values[k])
		}
		return out
	default:
		return nil
	}
}

// String renders a human-readable form, used for template substitution and
// console output.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return ""
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return v.s
	default:
		data, err := ToJSON(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
