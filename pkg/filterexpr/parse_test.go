package filterexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Dudeski/contactd/pkg/contact"
	"github.com/The-Dudeski/contactd/pkg/predicate"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name          string
		expr          string
		wantComponent predicate.Component
		wantMode      predicate.Mode
		wantPattern   string
	}{
		{"default mode", "name: Alice", predicate.ComponentName, predicate.ModeIs, "alice"},
		{"explicit mode", "tag|word: CS dev", predicate.ComponentTag, predicate.ModeWord, "cs dev"},
		{"spaces around key parts", " email | has : @example.com", predicate.ComponentEmail, predicate.ModeHas, "@example.com"},
		{"colon inside pattern", "address|has: 6:00 street", predicate.ComponentAddress, predicate.ModeHas, "6:00 street"},
		{"uppercase key", "NAME|STARTSWITH: Al", predicate.ComponentName, predicate.ModeStartsWith, "al"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.wantComponent, p.Component())
			assert.Equal(t, tc.wantMode, p.Mode())
			assert.Equal(t, tc.wantPattern, p.Pattern())
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{"missing colon", "name Alice", ErrBadExpr},
		{"empty expression", "", ErrBadExpr},
		{"unknown component", "nickname: al", ErrBadExpr},
		{"unknown mode", "name|contains: al", ErrBadExpr},
		{"too many key segments", "name|word|is: al", ErrBadExpr},
		{"blank pattern", "name:    ", predicate.ErrInvalidPattern},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseEntryKeepsPatternVerbatim(t *testing.T) {
	p, err := ParseEntry("name", " Alice ")
	require.NoError(t, err)
	assert.Equal(t, " alice ", p.Pattern())
}

func TestParsedPredicateMatches(t *testing.T) {
	p, err := Parse("tag|word: cs dev")
	require.NoError(t, err)
	assert.True(t, p.Test(contact.Contact{Name: "Alice", Tags: []string{"dev"}}))
	assert.False(t, p.Test(contact.Contact{Name: "Bob", Tags: []string{"sales"}}))
}
