package predicate

import (
	"reflect"
	"testing"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

func TestParseComponent(t *testing.T) {
	cases := []struct {
		in      string
		want    Component
		wantErr bool
	}{
		{"name", ComponentName, false},
		{"phone", ComponentPhone, false},
		{"email", ComponentEmail, false},
		{"address", ComponentAddress, false},
		{"tag", ComponentTag, false},
		{"department", ComponentDepartment, false},
		{" Name ", ComponentName, false},
		{"TAG", ComponentTag, false},
		{"nickname", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseComponent(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseComponent(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseComponent(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseComponent(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestComponentStringRoundTrip(t *testing.T) {
	for c, name := range componentNames {
		if c.String() != name {
			t.Errorf("String() = %q, want %q", c.String(), name)
		}
		parsed, err := ParseComponent(name)
		if err != nil || parsed != c {
			t.Errorf("ParseComponent(%q) = %v, %v", name, parsed, err)
		}
	}
}

func TestExtract(t *testing.T) {
	c := contact.Contact{
		Name:        "Alice Pauline",
		Phone:       "94351253",
		Email:       "Alice@Example.com",
		Address:     "123, Jurong West Ave 6",
		Tags:        []string{"Friends", "DEV"},
		Departments: nil,
	}
	cases := []struct {
		component Component
		want      []string
	}{
		{ComponentName, []string{"alice pauline"}},
		{ComponentPhone, []string{"94351253"}},
		{ComponentEmail, []string{"alice@example.com"}},
		{ComponentAddress, []string{"123, jurong west ave 6"}},
		{ComponentTag, []string{"friends", "dev"}},
		{ComponentDepartment, []string{}},
	}
	for _, tc := range cases {
		got := extract(c, tc.component)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("extract(%s) = %v, want %v", tc.component, got, tc.want)
		}
	}
}

func TestExtractPanicsOnUnknownComponent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("extract did not panic on an unmapped component")
		}
	}()
	extract(contact.Contact{Name: "x"}, Component(42))
}
