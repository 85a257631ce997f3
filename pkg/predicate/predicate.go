// Package predicate tests a single component of a contact against a
// pattern under one of eight match modes. Matching is case-insensitive:
// the pattern is lowercased at construction and candidate values are
// lowercased at extraction.
package predicate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

// ErrInvalidPattern is wrapped by New for blank patterns and for
// components or modes outside the known range.
var ErrInvalidPattern = errors.New("invalid filter pattern")

// Predicate is immutable after New and safe for concurrent Test calls.
type Predicate struct {
	pattern   string
	component Component
	mode      Mode
	words     *regexp.Regexp // set only for word modes
}

// New builds a predicate. The pattern is lowercased immediately and the
// original casing is not kept. Word modes compile their whole-word
// matcher here, so Test never compiles anything.
func New(pattern string, component Component, mode Mode) (*Predicate, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: pattern is empty or whitespace-only", ErrInvalidPattern)
	}
	if !component.valid() {
		return nil, fmt.Errorf("%w: component out of range: %d", ErrInvalidPattern, int(component))
	}
	if !mode.valid() {
		return nil, fmt.Errorf("%w: match mode out of range: %d", ErrInvalidPattern, int(mode))
	}
	p := &Predicate{
		pattern:   strings.ToLower(pattern),
		component: component,
		mode:      mode,
	}
	if mode.wordMode() {
		p.words = compileWords(p.pattern)
	}
	return p, nil
}

// MustNew is New for patterns known to be valid, typically literals in
// tests and fixtures.
func MustNew(pattern string, component Component, mode Mode) *Predicate {
	p, err := New(pattern, component, mode)
	if err != nil {
		panic(err)
	}
	return p
}

// compileWords builds the whole-word matcher: every space-separated
// token quoted literally, joined as alternatives, wrapped in word
// boundaries.
func compileWords(pattern string) *regexp.Regexp {
	toks := splitTokens(pattern)
	quoted := make([]string, len(toks))
	for i, tok := range toks {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// splitTokens splits a pattern on single spaces. Trailing empty tokens
// are dropped; interior ones (from doubled spaces) are kept.
func splitTokens(pattern string) []string {
	return strings.Split(strings.TrimRight(pattern, " "), " ")
}

// Test reports whether the contact satisfies the predicate. It is true
// when at least one candidate value passes the mode's rule. That holds
// for the negated modes too: a multi-valued component satisfies Isnt as
// soon as any single value differs from the pattern.
func (p *Predicate) Test(c contact.Contact) bool {
	for _, v := range extract(c, p.component) {
		if p.matchValue(v) {
			return true
		}
	}
	return false
}

func (p *Predicate) matchValue(v string) bool {
	switch p.mode {
	case ModeIs:
		return v == p.pattern
	case ModeIsnt:
		return v != p.pattern
	case ModeHas:
		return strings.Contains(v, p.pattern)
	case ModeHasnt:
		return !strings.Contains(v, p.pattern)
	case ModeStartsWith:
		return strings.HasPrefix(v, p.pattern)
	case ModeEndsWith:
		return strings.HasSuffix(v, p.pattern)
	case ModeWord:
		return p.words.MatchString(v)
	case ModeNoWord:
		return !p.words.MatchString(v)
	default:
		panic(fmt.Sprintf("predicate: match mode out of range: %d", int(p.mode)))
	}
}

// Equals reports structural equality: component, mode and lowercased
// pattern must all agree. Filter sets use it to spot duplicates.
func (p *Predicate) Equals(o *Predicate) bool {
	if p == nil || o == nil {
		return false
	}
	return p.component == o.component && p.mode == o.mode && p.pattern == o.pattern
}

// Component returns the inspected field.
func (p *Predicate) Component() Component { return p.component }

// Mode returns the match mode.
func (p *Predicate) Mode() Mode { return p.mode }

// Pattern returns the lowercased pattern.
func (p *Predicate) Pattern() string { return p.pattern }

// String renders the canonical expression form, e.g. "tag|word: cs dev".
func (p *Predicate) String() string {
	return p.component.String() + "|" + p.mode.String() + ": " + p.pattern
}
