package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// RunMigrations executes every .sql file in fsys in lexicographic order.
// Each file may contain multiple statements separated by ';'.
func (s *Store) RunMigrations(ctx context.Context, fsys fs.FS) error {
	var entries []string
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			entries = append(entries, path)
		}
		return nil
	}
	if err := fs.WalkDir(fsys, ".", walkFn); err != nil {
		return err
	}
	sort.Strings(entries)
	for _, p := range entries {
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", p, err)
		}
		for _, chunk := range strings.Split(string(b), ";") {
			stmt := strings.TrimSpace(chunk)
			if stmt == "" {
				continue
			}
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("exec migration %s: %w", p, err)
			}
		}
	}
	return nil
}

// InitSchema applies the embedded schema.
func (s *Store) InitSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.RunMigrations(ctx, migrationFS)
}
