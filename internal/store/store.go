// Package store persists contacts through database/sql. Two SQL drivers
// are supported, postgres (lib/pq) and sqlite (modernc.org/sqlite), plus
// an in-memory implementation for tests and throwaway runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

// ErrNotFound is returned when the requested contact does not exist.
var ErrNotFound = errors.New("contact not found")

// Store wraps a SQL handle. Queries are written with '?' placeholders
// and rebound to $n for postgres.
type Store struct {
	db       *sql.DB
	rebindPg bool
}

// Open connects and configures the pool. The process importing the
// matching driver is the caller's job; cmd/contactd blank-imports both.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	if driver == "sqlite" && !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return New(db, driver), nil
}

// New wraps an existing handle; tests pass in a sqlmock one.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, rebindPg: driver == "postgres"}
}

// Close releases the pool.
func (s *Store) Close() error { return s.db.Close() }

// rebind rewrites '?' placeholders to $1..$n when talking to postgres.
func (s *Store) rebind(q string) string {
	if !s.rebindPg {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const contactColumns = `id, name, phone, email, address, tags, departments`

// Upsert validates and writes the contact, assigning a fresh UUID when
// the ID is empty, and returns the stored form.
func (s *Store) Upsert(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	if err := c.Validate(); err != nil {
		return contact.Contact{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO contacts (`+contactColumns+`, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            phone = excluded.phone,
            email = excluded.email,
            address = excluded.address,
            tags = excluded.tags,
            departments = excluded.departments,
            updated_at = excluded.updated_at`),
		c.ID, c.Name, c.Phone, c.Email, c.Address,
		marshalLabels(c.Tags), marshalLabels(c.Departments), now, now,
	)
	if err != nil {
		return contact.Contact{}, fmt.Errorf("upsert contact: %w", err)
	}
	return c, nil
}

// Get returns the contact with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (contact.Contact, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`), id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, ErrNotFound
	}
	if err != nil {
		return contact.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// List returns contacts ordered by name then id. A limit <= 0 means no
// limit.
func (s *Store) List(ctx context.Context, limit int) ([]contact.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts ORDER BY name, id`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, s.rebind(q+` LIMIT ?`), limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	out := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes the contact with the given id, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM contacts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports how many contacts are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (contact.Contact, error) {
	var (
		c          contact.Contact
		tags, deps string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &tags, &deps); err != nil {
		return contact.Contact{}, err
	}
	c.Tags = unmarshalLabels(tags)
	c.Departments = unmarshalLabels(deps)
	return c, nil
}

// Label slices ride along as JSON text so the same schema works on both
// drivers.
func marshalLabels(labels []string) string {
	if len(labels) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(labels)
	return string(b)
}

func unmarshalLabels(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
