package predicate

import (
	"fmt"
	"strings"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

// Component identifies which contact field a predicate inspects.
type Component int

const (
	ComponentName Component = iota
	ComponentPhone
	ComponentEmail
	ComponentAddress
	ComponentTag
	ComponentDepartment
)

var componentNames = map[Component]string{
	ComponentName:       "name",
	ComponentPhone:      "phone",
	ComponentEmail:      "email",
	ComponentAddress:    "address",
	ComponentTag:        "tag",
	ComponentDepartment: "department",
}

func (c Component) String() string {
	if s, ok := componentNames[c]; ok {
		return s
	}
	return fmt.Sprintf("component(%d)", int(c))
}

func (c Component) valid() bool {
	_, ok := componentNames[c]
	return ok
}

// ParseComponent resolves a component name; case and surrounding spaces
// are ignored.
func ParseComponent(s string) (Component, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for c, name := range componentNames {
		if name == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown component %q", s)
}

// extractors maps each component to its candidate-value rule. Name,
// phone, email and address yield a single value; tag and department
// yield one value per label.
var extractors = map[Component]func(contact.Contact) []string{
	ComponentName:       func(c contact.Contact) []string { return []string{c.Name} },
	ComponentPhone:      func(c contact.Contact) []string { return []string{c.Phone} },
	ComponentEmail:      func(c contact.Contact) []string { return []string{c.Email} },
	ComponentAddress:    func(c contact.Contact) []string { return []string{c.Address} },
	ComponentTag:        func(c contact.Contact) []string { return c.Tags },
	ComponentDepartment: func(c contact.Contact) []string { return c.Departments },
}

// extract returns the candidate values for comp, each lowercased so all
// downstream comparison is case-insensitive. Reaching an unmapped
// component here means a predicate was built around validation, so this
// panics rather than guessing.
func extract(c contact.Contact, comp Component) []string {
	fn, ok := extractors[comp]
	if !ok {
		panic(fmt.Sprintf("predicate: component out of range: %d", int(comp)))
	}
	vals := fn(c)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strings.ToLower(v)
	}
	return out
}
