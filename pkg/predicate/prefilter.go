package predicate

import (
	"strings"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

// Span is one literal hit inside a candidate value, in byte offsets over
// the lowercased value.
type Span struct {
	Pattern string `json:"pattern"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// ValueSpans pairs one candidate value with the literal hits inside it.
type ValueSpans struct {
	Value string `json:"value"`
	Spans []Span `json:"spans"`
}

// Prescan is a literal substring filter compiled from a predicate's
// pattern. It is conservative: a CouldMatch miss proves Test would return
// false, a hit proves nothing. Callers run it before the full predicate
// and skip contacts it rules out.
type Prescan struct {
	pred     *Predicate
	patterns []string
	ac       *ac.AhoCorasick
}

// NewPrescan returns nil when the predicate has no literal witness:
// negated modes match on absence, and a word pattern with an empty token
// (doubled spaces) is satisfiable at any word boundary. Callers treat a
// nil prescan as "evaluate everything".
func NewPrescan(p *Predicate) *Prescan {
	if p == nil || p.mode.negated() {
		return nil
	}
	var patterns []string
	if p.mode == ModeWord {
		for _, tok := range splitTokens(p.pattern) {
			if tok == "" {
				return nil
			}
			patterns = append(patterns, tok)
		}
	} else {
		patterns = []string{p.pattern}
	}

	builder := ac.NewAhoCorasickBuilder(ac.Opts{
		// Pattern and candidates are both lowercased already.
		AsciiCaseInsensitive: false,
		MatchKind:            ac.LeftMostLongestMatch,
	})
	automaton := builder.Build(patterns)
	return &Prescan{pred: p, patterns: patterns, ac: &automaton}
}

// Patterns returns the literals the automaton was built from.
func (s *Prescan) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// CouldMatch reports whether any candidate value of the predicate's
// component contains at least one literal.
func (s *Prescan) CouldMatch(c contact.Contact) bool {
	for _, v := range extract(c, s.pred.component) {
		if len(s.ac.FindAll(v)) > 0 {
			return true
		}
	}
	return false
}

// Spans returns the literal hits inside one value. The value is
// lowercased first, the same way extraction lowercases candidates, and
// the offsets index into that lowercased form.
func (s *Prescan) Spans(value string) []Span {
	return s.spansIn(strings.ToLower(value))
}

// ContactSpans collects the hits across every candidate value of the
// predicate's component, skipping values with none.
func (s *Prescan) ContactSpans(c contact.Contact) []ValueSpans {
	var out []ValueSpans
	for _, v := range extract(c, s.pred.component) {
		if spans := s.spansIn(v); len(spans) > 0 {
			out = append(out, ValueSpans{Value: v, Spans: spans})
		}
	}
	return out
}

func (s *Prescan) spansIn(v string) []Span {
	matches := s.ac.FindAll(v)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Span, 0, len(matches))
	for _, m := range matches {
		pat := ""
		if idx := m.Pattern(); idx >= 0 && idx < len(s.patterns) {
			pat = s.patterns[idx]
		}
		out = append(out, Span{Pattern: pat, Start: m.Start(), End: m.End()})
	}
	return out
}
