package varscope

import (
	"strings"

	"github.com/blackcoderx/cannon/internal/cannonerr"
)

// Render scans s for "{{path}}" placeholders and substitutes each with the
// rendered string form of the resolved variable. A placeholder whose path
// cannot be resolved against scope's variables is a render error, per
// §4.2's "failing fast on parse or render error" contract; the original
// implementation (original_source/src/app/context.rs: apply) panics on this
// condition, which this engine surfaces as the single fatal error class
// (§7: "Template render errors ... propagate a panic").
func (e *DefaultTemplateEngine) Render(s string, scope *Context) (string, error) {
	var sb strings.Builder
	rest := s
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			sb.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			return "", cannonerr.Syntaxf("unterminated template placeholder in %q", s)
		}
		end += start

		sb.WriteString(rest[:start])
		name := strings.TrimSpace(rest[start+2 : end])

		v, ok := scope.FindPath(ParsePath(name))
		if !ok {
			return "", cannonerr.ValueNotFoundf("template placeholder %q not found", name)
		}
		sb.WriteString(v.String())

		rest = rest[end+2:]
	}
	return sb.String(), nil
}
