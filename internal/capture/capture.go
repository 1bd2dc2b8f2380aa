// Package capture extracts values from response bodies into the value
// model, via JSONPath-subset selectors or regular expressions.
package capture

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/blackcoderx/cannon/internal/value"
)

// Capture is the tagged union of capture strategies (spec §3 CaptureEntry.cap).
type Capture interface {
	// Capture extracts a Value from a response body. Failure to extract
	// (bad UTF-8, unparsable JSON, no regex match) is non-fatal to the job:
	// it returns value.Nil and a descriptive error the caller should log,
	// not propagate, per §4.3.
	Capture(body []byte) (value.Value, error)
}

// JSONPathCapture selects a value out of a JSON response body using the
// same dotted/bracket-indexed path syntax the teacher's assert.go hand-rolls
// in getJSONPath (see DESIGN.md C3): "$.field", "field.nested",
// "field[0]". Multi-result collapsing follows §4.1 (handled naturally here
// since the model already collapses length-1 JSON arrays on parse).
type JSONPathCapture struct {
	Selector string
}

func (c JSONPathCapture) Capture(body []byte) (value.Value, error) {
	if !isValidUTF8(body) {
		return value.Nil, errf("response body is not valid UTF-8")
	}
	root, err := value.FromJSON(body)
	if err != nil {
		return value.Nil, errf("response body is not valid JSON: %v", err)
	}
	return getPath(root, c.Selector)
}

func getPath(root value.Value, selector string) (value.Value, error) {
	path := strings.TrimPrefix(selector, "$.")
	if path == "" || path == "$" {
		return root, nil
	}

	current := root
	for _, part := range strings.Split(path, ".") {
		if bracket := strings.IndexByte(part, '['); bracket != -1 {
			fieldName := part[:bracket]
			closeBracket := strings.IndexByte(part, ']')
			if closeBracket == -1 {
				return value.Nil, errf("malformed path segment %q", part)
			}
			indexStr := part[bracket+1 : closeBracket]
			index, err := strconv.Atoi(indexStr)
			if err != nil {
				return value.Nil, errf("invalid array index: %s", indexStr)
			}

			if fieldName != "" {
				obj, ok := current.AsObject()
				if !ok {
					return value.Nil, errf("expected object at %q", fieldName)
				}
				v, ok := obj.Get(fieldName)
				if !ok {
					return value.Nil, errf("field %q not found", fieldName)
				}
				current = v
			}

			arr, ok := current.AsArray()
			if !ok {
				return value.Nil, errf("expected array at %q", part)
			}
			if index < 0 || index >= len(arr) {
				return value.Nil, errf("array index %d out of bounds", index)
			}
			current = arr[index]
			continue
		}

		obj, ok := current.AsObject()
		if !ok {
			return value.Nil, errf("expected object, got %s", current.TypeName())
		}
		v, ok := obj.Get(part)
		if !ok {
			return value.Nil, errf("field %q not found", part)
		}
		current = v
	}
	return current, nil
}

// RegexCapture resolves the spec's §9 open question on the Regex variant:
// rather than rejecting it at manifest load, the first capture group (or
// the whole match, if the pattern defines no group) is extracted as a
// Scalar(String), matching the JSON branch's non-fatal failure policy.
type RegexCapture struct {
	Pattern *regexp.Regexp
}

func (c RegexCapture) Capture(body []byte) (value.Value, error) {
	if !isValidUTF8(body) {
		return value.Nil, errf("response body is not valid UTF-8")
	}
	match := c.Pattern.FindSubmatch(body)
	if match == nil {
		return value.Nil, errf("no match for pattern %q", c.Pattern.String())
	}
	if len(match) > 1 {
		return value.String(string(match[1])), nil
	}
	return value.String(string(match[0])), nil
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}

func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
