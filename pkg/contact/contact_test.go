package contact

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		contact Contact
		wantErr bool
	}{
		{
			name:    "minimal valid",
			contact: Contact{Name: "Alice Pauline"},
		},
		{
			name: "fully populated",
			contact: Contact{
				Name:        "Bob Choo",
				Phone:       "94351253",
				Email:       "bob@example.com",
				Address:     "123, Jurong West Ave 6",
				Tags:        []string{"friends", "colleagues"},
				Departments: []string{"engineering"},
			},
		},
		{name: "missing name", contact: Contact{Phone: "94351253"}, wantErr: true},
		{name: "whitespace name", contact: Contact{Name: "   "}, wantErr: true},
		{name: "short phone", contact: Contact{Name: "Alice", Phone: "91"}, wantErr: true},
		{name: "non-digit phone", contact: Contact{Name: "Alice", Phone: "9435-1253"}, wantErr: true},
		{name: "email without at", contact: Contact{Name: "Alice", Email: "alice.example.com"}, wantErr: true},
		{name: "email without local part", contact: Contact{Name: "Alice", Email: "@example.com"}, wantErr: true},
		{name: "email without domain", contact: Contact{Name: "Alice", Email: "alice@"}, wantErr: true},
		{name: "email with space", contact: Contact{Name: "Alice", Email: "a lice@example.com"}, wantErr: true},
		{name: "empty tag", contact: Contact{Name: "Alice", Tags: []string{""}}, wantErr: true},
		{name: "multi-word tag", contact: Contact{Name: "Alice", Tags: []string{"close friend"}}, wantErr: true},
		{name: "empty department", contact: Contact{Name: "Alice", Departments: []string{""}}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.contact.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidContact) {
					t.Fatalf("Validate() = %v, want ErrInvalidContact", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Contact{
		Name: "Alice",
		Tags: []string{"friends"},
	}
	cp := orig.Clone()
	cp.Tags[0] = "enemies"
	if orig.Tags[0] != "friends" {
		t.Fatalf("mutating the clone changed the original tags: %v", orig.Tags)
	}

	cp2 := orig.Clone()
	cp2.Name = "Bob"
	if orig.Name != "Alice" {
		t.Fatalf("mutating the clone changed the original name: %q", orig.Name)
	}
}

func TestCloneKeepsNilSlices(t *testing.T) {
	cp := Contact{Name: "Alice"}.Clone()
	if cp.Tags != nil || cp.Departments != nil {
		t.Fatalf("Clone() materialized nil slices: tags=%v departments=%v", cp.Tags, cp.Departments)
	}
}
