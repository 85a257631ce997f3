package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

// Memory keeps contacts in-memory with concurrent access protection. It
// exposes the same surface as Store so the server cannot tell them
// apart.
type Memory struct {
	mu    sync.RWMutex
	items map[string]contact.Contact
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]contact.Contact)}
}

// Upsert inserts or updates a contact, assigning a fresh UUID when the
// ID is empty.
func (m *Memory) Upsert(_ context.Context, c contact.Contact) (contact.Contact, error) {
	if err := c.Validate(); err != nil {
		return contact.Contact{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.mu.Lock()
	m.items[c.ID] = c.Clone()
	m.mu.Unlock()
	return c, nil
}

// Get returns the contact with the given id, or ErrNotFound.
func (m *Memory) Get(_ context.Context, id string) (contact.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.items[id]
	if !ok {
		return contact.Contact{}, ErrNotFound
	}
	return c.Clone(), nil
}

// List returns contacts ordered by name then id. A limit <= 0 means no
// limit.
func (m *Memory) List(_ context.Context, limit int) ([]contact.Contact, error) {
	m.mu.RLock()
	out := make([]contact.Contact, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c.Clone())
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		return out[:limit], nil
	}
	return out, nil
}

// Delete removes the contact with the given id, or returns ErrNotFound.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// Count reports how many contacts are stored.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}
