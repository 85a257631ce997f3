package contact

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidContact is wrapped by every validation failure.
var ErrInvalidContact = errors.New("invalid contact")

// Contact is a single directory entry. Tags and Departments may hold any
// number of labels, including none.
type Contact struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Address     string   `json:"address,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

// Validate checks field constraints. Name is required; the other fields
// are optional but must be well formed when present.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidContact)
	}
	if c.Phone != "" && !validPhone(c.Phone) {
		return fmt.Errorf("%w: phone %q must be at least 3 digits", ErrInvalidContact, c.Phone)
	}
	if c.Email != "" && !validEmail(c.Email) {
		return fmt.Errorf("%w: email %q is malformed", ErrInvalidContact, c.Email)
	}
	for _, t := range c.Tags {
		if !validLabel(t) {
			return fmt.Errorf("%w: tag %q must be a single non-empty word", ErrInvalidContact, t)
		}
	}
	for _, d := range c.Departments {
		if !validLabel(d) {
			return fmt.Errorf("%w: department %q must be a single non-empty word", ErrInvalidContact, d)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared label slices.
func (c Contact) Clone() Contact {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Departments != nil {
		out.Departments = append([]string(nil), c.Departments...)
	}
	return out
}

func validPhone(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func validEmail(s string) bool {
	if strings.Count(s, "@") != 1 || strings.ContainsAny(s, " \t") {
		return false
	}
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}

func validLabel(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
