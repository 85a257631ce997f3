// Package filterexpr parses the textual filter form used by the HTTP
// API, the CLI and saved-filter files:
//
//	component: pattern
//	component|mode: pattern
//
// The mode defaults to "is" when omitted. Matching semantics live in
// pkg/predicate; this package only maps text onto it.
package filterexpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/The-Dudeski/contactd/pkg/predicate"
)

// ErrBadExpr is wrapped by every malformed-expression failure.
var ErrBadExpr = errors.New("bad filter expression")

// Parse turns an expression like "tag|word: cs dev" into a predicate.
// The pattern part is trimmed of surrounding spaces.
func Parse(expr string) (*predicate.Predicate, error) {
	key, pattern, ok := strings.Cut(expr, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing ':' in %q", ErrBadExpr, expr)
	}
	return ParseEntry(key, strings.TrimSpace(pattern))
}

// ParseEntry builds a predicate from a key ("component" or
// "component|mode") and a pattern, the shape saved-filter YAML entries
// use. The pattern is passed through verbatim.
func ParseEntry(key, pattern string) (*predicate.Predicate, error) {
	parts := strings.Split(key, "|")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: key %q holds more than one match mode", ErrBadExpr, key)
	}
	comp, err := predicate.ParseComponent(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadExpr, err)
	}
	mode := predicate.ModeIs
	if len(parts) == 2 {
		mode, err = predicate.ParseMode(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadExpr, err)
		}
	}
	return predicate.New(pattern, comp, mode)
}
