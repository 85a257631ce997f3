// Package filters loads named, reusable predicate definitions from YAML
// files and hands the server immutable snapshots of them.
package filters

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/The-Dudeski/contactd/pkg/filterexpr"
	"github.com/The-Dudeski/contactd/pkg/predicate"
)

// Filter is one saved filter: a name, an optional description and the
// predicate it stands for.
type Filter struct {
	Name        string
	Description string
	Predicate   *predicate.Predicate
}

type rawFilter struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Filter      map[string]string `yaml:"filter"`
}

// Load parses one saved-filter document. The filter block must hold
// exactly one "component" or "component|mode" entry.
func Load(b []byte) (Filter, error) {
	var rf rawFilter
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return Filter{}, fmt.Errorf("parse filter yaml: %w", err)
	}
	if strings.TrimSpace(rf.Name) == "" {
		return Filter{}, errors.New("missing filter name")
	}
	if len(rf.Filter) != 1 {
		return Filter{}, fmt.Errorf("filter %q must hold exactly one component entry, found %d", rf.Name, len(rf.Filter))
	}
	f := Filter{Name: rf.Name, Description: rf.Description}
	for key, pattern := range rf.Filter {
		p, err := filterexpr.ParseEntry(key, pattern)
		if err != nil {
			return Filter{}, fmt.Errorf("filter %q: %w", rf.Name, err)
		}
		f.Predicate = p
	}
	return f, nil
}

func isYAML(p string) bool {
	l := strings.ToLower(p)
	return strings.HasSuffix(l, ".yml") || strings.HasSuffix(l, ".yaml")
}

// LoadDir walks root recursively and loads every .yml/.yaml file, one
// filter per file. Broken files are skipped with a log line so a single
// bad filter cannot take the whole directory down. Returns the loaded
// set and the number of skipped files.
func LoadDir(root string) (*Set, int, error) {
	var loaded []Filter
	skipped := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}
		b, rerr := os.ReadFile(path)
		if rerr != nil {
			log.Printf("filters: skip %s: %v", path, rerr)
			skipped++
			return nil
		}
		f, rerr := Load(b)
		if rerr != nil {
			log.Printf("filters: skip %s: %v", path, rerr)
			skipped++
			return nil
		}
		loaded = append(loaded, f)
		return nil
	})
	if err != nil {
		return nil, skipped, fmt.Errorf("walk filters dir: %w", err)
	}
	return NewSet(loaded), skipped, nil
}

// Set is an immutable snapshot of saved filters keyed by name.
type Set struct {
	byName map[string]Filter
	names  []string
}

// NewSet builds a snapshot. A repeated name replaces the earlier
// definition; distinct names carrying equal predicates are only logged,
// not rejected.
func NewSet(filters []Filter) *Set {
	s := &Set{byName: make(map[string]Filter, len(filters))}
	for _, f := range filters {
		if _, dup := s.byName[f.Name]; dup {
			log.Printf("filters: duplicate name %q, keeping the later definition", f.Name)
		} else {
			for _, other := range s.byName {
				if f.Predicate.Equals(other.Predicate) {
					log.Printf("filters: %q and %q define the same predicate", f.Name, other.Name)
					break
				}
			}
		}
		s.byName[f.Name] = f
	}
	s.names = make([]string, 0, len(s.byName))
	for name := range s.byName {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

// Get returns the filter saved under name.
func (s *Set) Get(name string) (Filter, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Names returns the saved names in sorted order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// All returns the filters in name order.
func (s *Set) All() []Filter {
	out := make([]Filter, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.byName[name])
	}
	return out
}

// Len reports how many filters the set holds.
func (s *Set) Len() int {
	return len(s.byName)
}
