package predicate

import (
	"reflect"
	"testing"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

func TestNewPrescanSuitability(t *testing.T) {
	cases := []struct {
		name     string
		pattern  string
		mode     Mode
		wantScan bool
	}{
		{"is", "alice", ModeIs, true},
		{"has", "ali", ModeHas, true},
		{"startswith", "ali", ModeStartsWith, true},
		{"endswith", "ine", ModeEndsWith, true},
		{"word", "cs dev", ModeWord, true},
		{"isnt", "alice", ModeIsnt, false},
		{"hasnt", "ali", ModeHasnt, false},
		{"noword", "cs dev", ModeNoWord, false},
		{"word with empty token", "a  b", ModeWord, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := MustNew(tc.pattern, ComponentName, tc.mode)
			got := NewPrescan(p) != nil
			if got != tc.wantScan {
				t.Fatalf("NewPrescan(%s) != nil is %v, want %v", p, got, tc.wantScan)
			}
		})
	}
	if NewPrescan(nil) != nil {
		t.Fatalf("NewPrescan(nil) returned a prescan")
	}
}

// A prescan miss must prove the full predicate would miss too; anything
// the predicate matches has to survive the prescan.
func TestPrescanNeverSkipsAMatch(t *testing.T) {
	contacts := []contact.Contact{
		sampleContact(),
		{Name: "Bob Choo", Email: "bob@xyz.com", Tags: []string{"ops"}},
		{Name: "Carl Kurz", Address: "wall street"},
		{Name: "team led"},
		{Name: "Team Leader"},
	}
	preds := []*Predicate{
		MustNew("Alice Pauline", ComponentName, ModeIs),
		MustNew("ali", ComponentName, ModeHas),
		MustNew("bob", ComponentName, ModeStartsWith),
		MustNew("kurz", ComponentName, ModeEndsWith),
		MustNew("led cs", ComponentName, ModeWord),
		MustNew("xyz", ComponentEmail, ModeHas),
		MustNew("ops dev", ComponentTag, ModeWord),
	}
	for _, p := range preds {
		ps := NewPrescan(p)
		if ps == nil {
			t.Fatalf("NewPrescan(%s) = nil for a positive mode", p)
		}
		for _, c := range contacts {
			if p.Test(c) && !ps.CouldMatch(c) {
				t.Errorf("prescan for %s skipped matching contact %q", p, c.Name)
			}
		}
	}
}

func TestPrescanSkipsObviousMisses(t *testing.T) {
	p := MustNew("zzz", ComponentName, ModeHas)
	ps := NewPrescan(p)
	if ps.CouldMatch(sampleContact()) {
		t.Fatalf("prescan passed a contact without the literal")
	}
}

func TestPrescanPatterns(t *testing.T) {
	ps := NewPrescan(MustNew("CS dev", ComponentTag, ModeWord))
	if got, want := ps.Patterns(), []string{"cs", "dev"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Patterns() = %v, want %v", got, want)
	}
}

func TestSpans(t *testing.T) {
	ps := NewPrescan(MustNew("led", ComponentName, ModeWord))
	got := ps.Spans("Team Led")
	want := []Span{{Pattern: "led", Start: 5, End: 8}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Spans() = %v, want %v", got, want)
	}
	if spans := ps.Spans("nothing here"); spans != nil {
		t.Fatalf("Spans() = %v on a value without the literal", spans)
	}
}

func TestContactSpans(t *testing.T) {
	ps := NewPrescan(MustNew("dev", ComponentTag, ModeHas))
	c := contact.Contact{Name: "Alice", Tags: []string{"DevOps", "sales"}}
	got := ps.ContactSpans(c)
	want := []ValueSpans{{Value: "devops", Spans: []Span{{Pattern: "dev", Start: 0, End: 3}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ContactSpans() = %v, want %v", got, want)
	}
}
