// Package durfmt parses the engine's duration literal grammar:
// \d+(ns|us|ms|s|m|h|d). time.ParseDuration does not accept the "d" (day)
// unit, so this is a small hand-written parser rather than a stdlib
// pass-through.
package durfmt

import (
	"regexp"
	"strconv"
	"time"

	"github.com/blackcoderx/cannon/internal/cannonerr"
)

var pattern = regexp.MustCompile(`^(\d+)(ns|us|ms|s|m|h|d)$`)

var unitScale = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  60 * time.Second,
	"h":  3600 * time.Second,
	"d":  86400 * time.Second,
}

// Parse converts a duration literal like "200ms" or "2h" into a
// time.Duration. Any form not matching the grammar yields a Syntax error.
func Parse(literal string) (time.Duration, error) {
	m := pattern.FindStringSubmatch(literal)
	if m == nil {
		return 0, cannonerr.Syntaxf("invalid duration literal %q", literal)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, cannonerr.Syntaxf("invalid duration literal %q: %v", literal, err)
	}
	scale, ok := unitScale[m[2]]
	if !ok {
		return 0, cannonerr.Internalf("unit not supported: %s", m[2])
	}
	return time.Duration(n) * scale, nil
}
