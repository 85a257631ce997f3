package predicate

import (
	"fmt"
	"strings"
)

// Mode selects the rule a candidate value is tested under.
type Mode int

const (
	// ModeIs matches when a value equals the pattern.
	ModeIs Mode = iota
	// ModeIsnt matches when a value differs from the pattern.
	ModeIsnt
	// ModeHas matches when a value contains the pattern.
	ModeHas
	// ModeHasnt matches when a value does not contain the pattern.
	ModeHasnt
	// ModeStartsWith matches when a value starts with the pattern.
	ModeStartsWith
	// ModeEndsWith matches when a value ends with the pattern.
	ModeEndsWith
	// ModeWord matches when a value contains any pattern token as a
	// whole word.
	ModeWord
	// ModeNoWord matches when a value contains no pattern token as a
	// whole word.
	ModeNoWord
)

var modeNames = map[Mode]string{
	ModeIs:         "is",
	ModeIsnt:       "isnt",
	ModeHas:        "has",
	ModeHasnt:      "hasnt",
	ModeStartsWith: "startswith",
	ModeEndsWith:   "endswith",
	ModeWord:       "word",
	ModeNoWord:     "noword",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) valid() bool {
	_, ok := modeNames[m]
	return ok
}

// negated reports whether the mode inverts its per-value rule. Negated
// modes have no literal substring witness, so they are never prescanned.
func (m Mode) negated() bool {
	return m == ModeIsnt || m == ModeHasnt || m == ModeNoWord
}

func (m Mode) wordMode() bool {
	return m == ModeWord || m == ModeNoWord
}

// ParseMode resolves a mode name; case and surrounding spaces are
// ignored.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown match mode %q", s)
}
