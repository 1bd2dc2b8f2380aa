package varscope

import (
	"strconv"
	"strings"

	"github.com/blackcoderx/cannon/internal/value"
)

// Path is a sequence of segments walking nested Objects and Arrays.
// Numeric segments index into arrays; any other segment is an object key.
type Path []string

// ParsePath splits a dotted path string ("a.b.2.c") into segments.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// Resolve walks root following p, returning (Value, true) on success or
// (Nil, false) if any segment is missing or type-incompatible.
func Resolve(root value.Value, p Path) (value.Value, bool) {
	current := root
	for _, seg := range p {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.AsArray()
			if !ok || idx < 0 || idx >= len(arr) {
				return value.Nil, false
			}
			current = arr[idx]
			continue
		}
		obj, ok := current.AsObject()
		if !ok {
			return value.Nil, false
		}
		v, ok := obj.Get(seg)
		if !ok {
			return value.Nil, false
		}
		current = v
	}
	return current, true
}
