// Package server exposes the contact directory and its predicate
// filtering over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/The-Dudeski/contactd/internal/filters"
	"github.com/The-Dudeski/contactd/internal/store"
	"github.com/The-Dudeski/contactd/pkg/contact"
	"github.com/The-Dudeski/contactd/pkg/filterexpr"
	"github.com/The-Dudeski/contactd/pkg/predicate"
)

// ErrNoSavedFilter is returned when a filter name is not in the current
// set; the handler maps it to 404.
var ErrNoSavedFilter = errors.New("no saved filter")

// ContactStore is the slice of the store the HTTP layer needs. Both the
// SQL store and the in-memory one satisfy it.
type ContactStore interface {
	Upsert(ctx context.Context, c contact.Contact) (contact.Contact, error)
	List(ctx context.Context, limit int) ([]contact.Contact, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

const (
	predCacheTTL   = 5 * time.Minute
	predCacheSweep = 10 * time.Minute

	defaultLimit = 200
	maxLimit     = 1000
)

type AppServer struct {
	store ContactStore

	mu    sync.RWMutex // protects saved filter swap
	saved *filters.Set

	// Parsed ad-hoc expressions, keyed by the expression text.
	preds *cache.Cache

	filterRequests  atomic.Uint64
	cacheHits       atomic.Uint64
	contactsScanned atomic.Uint64
	prescanSkipped  atomic.Uint64
}

func NewAppServer(st ContactStore) *AppServer {
	return &AppServer{
		store: st,
		saved: filters.NewSet(nil),
		preds: cache.New(predCacheTTL, predCacheSweep),
	}
}

// RegisterRoutes wires HTTP handlers.
func (s *AppServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/contacts", s.handleContacts)
	mux.HandleFunc("/api/v1/contacts/filter", s.handleFilter)
	mux.HandleFunc("/api/v1/filters", s.handleFilters)
}

// SavedFilters returns the current snapshot.
func (s *AppServer) SavedFilters() *filters.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved
}

// SwapFilters replaces the snapshot; the directory watcher calls this on
// reload.
func (s *AppServer) SwapFilters(set *filters.Set) {
	s.mu.Lock()
	s.saved = set
	s.mu.Unlock()
}

// ---- Handlers ----

func (s *AppServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *AppServer) handleStats(w http.ResponseWriter, r *http.Request) {
	type statsResp struct {
		Contacts        int    `json:"contacts"`
		SavedFilters    int    `json:"saved_filters"`
		FilterRequests  uint64 `json:"filter_requests"`
		CacheHits       uint64 `json:"cache_hits"`
		ContactsScanned uint64 `json:"contacts_scanned"`
		PrescanSkipped  uint64 `json:"prescan_skipped"`
	}
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResp{
		Contacts:        count,
		SavedFilters:    s.SavedFilters().Len(),
		FilterRequests:  s.filterRequests.Load(),
		CacheHits:       s.cacheHits.Load(),
		ContactsScanned: s.contactsScanned.Load(),
		PrescanSkipped:  s.prescanSkipped.Load(),
	})
}

// handleContacts supports GET (list), POST (upsert one or many) and
// DELETE (?id=).
func (s *AppServer) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		out, err := s.store.List(r.Context(), limitParam(r, defaultLimit))
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		s.handleUpsertContacts(w, r)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeErr(w, http.StatusBadRequest, errors.New("missing id parameter"))
			return
		}
		if err := s.store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeErr(w, http.StatusNotFound, err)
				return
			}
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleUpsertContacts accepts a JSON object or array of objects.
func (s *AppServer) handleUpsertContacts(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	var batch []contact.Contact
	if trimmed := strings.TrimLeft(string(raw), " \t\r\n"); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &batch); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
			return
		}
	} else {
		var c contact.Contact
		if err := json.Unmarshal(raw, &c); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
			return
		}
		batch = append(batch, c)
	}

	stored := make([]contact.Contact, 0, len(batch))
	for _, c := range batch {
		out, err := s.store.Upsert(r.Context(), c)
		if err != nil {
			if errors.Is(err, contact.ErrInvalidContact) {
				writeErr(w, http.StatusBadRequest, err)
				return
			}
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		stored = append(stored, out)
	}
	writeJSON(w, http.StatusOK, map[string]any{"stored": len(stored), "contacts": stored})
}

// handleFilter evaluates one predicate over every stored contact. The
// predicate comes from ?q= (an expression) or ?name= (a saved filter).
// With ?highlight=1 each match carries the literal spans the prescan
// found.
func (s *AppServer) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.filterRequests.Add(1)
	q := r.URL.Query()

	pred, err := s.resolvePredicate(q.Get("q"), q.Get("name"))
	if err != nil {
		if errors.Is(err, ErrNoSavedFilter) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	limit := limitParam(r, defaultLimit)
	highlight := q.Get("highlight") == "1" || q.Get("highlight") == "true"

	all, err := s.store.List(r.Context(), 0)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	type filterMatch struct {
		contact.Contact
		Highlights []predicate.ValueSpans `json:"highlights,omitempty"`
	}
	ps := predicate.NewPrescan(pred)
	out := []filterMatch{}
	scanned, skipped := 0, 0
	for _, c := range all {
		scanned++
		if ps != nil && !ps.CouldMatch(c) {
			skipped++
			continue
		}
		if !pred.Test(c) {
			continue
		}
		m := filterMatch{Contact: c}
		if highlight && ps != nil {
			m.Highlights = ps.ContactSpans(c)
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	s.contactsScanned.Add(uint64(scanned))
	s.prescanSkipped.Add(uint64(skipped))

	writeJSON(w, http.StatusOK, map[string]any{
		"filter":   pred.String(),
		"scanned":  scanned,
		"skipped":  skipped,
		"matched":  len(out),
		"contacts": out,
	})
}

// resolvePredicate turns the q/name pair into a predicate. Ad-hoc
// expressions are memoized so repeated queries skip parsing and regexp
// compilation.
func (s *AppServer) resolvePredicate(expr, name string) (*predicate.Predicate, error) {
	switch {
	case expr != "" && name != "":
		return nil, errors.New("pass either q or name, not both")
	case name != "":
		f, ok := s.SavedFilters().Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoSavedFilter, name)
		}
		return f.Predicate, nil
	case expr != "":
		key := strings.TrimSpace(expr)
		if v, ok := s.preds.Get(key); ok {
			s.cacheHits.Add(1)
			return v.(*predicate.Predicate), nil
		}
		p, err := filterexpr.Parse(key)
		if err != nil {
			return nil, err
		}
		s.preds.SetDefault(key, p)
		return p, nil
	default:
		return nil, errors.New("missing filter: pass q=<expression> or name=<saved filter>")
	}
}

// handleFilters supports GET (list saved filters) and POST (replace the
// whole set).
// POST body: { filters: [ {name, description, filter}, ... ] }
func (s *AppServer) handleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		type item struct {
			Name        string `json:"name"`
			Description string `json:"description,omitempty"`
			Filter      string `json:"filter"`
		}
		set := s.SavedFilters()
		items := []item{}
		for _, f := range set.All() {
			items = append(items, item{Name: f.Name, Description: f.Description, Filter: f.Predicate.String()})
		}
		writeJSON(w, http.StatusOK, map[string]any{"filters": items})
	case http.MethodPost:
		var req struct {
			Filters []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Filter      string `json:"filter"`
			} `json:"filters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		loaded := make([]filters.Filter, 0, len(req.Filters))
		for _, f := range req.Filters {
			if strings.TrimSpace(f.Name) == "" {
				writeErr(w, http.StatusBadRequest, errors.New("missing filter name"))
				return
			}
			p, err := filterexpr.Parse(f.Filter)
			if err != nil {
				writeErr(w, http.StatusBadRequest, fmt.Errorf("filter %q: %w", f.Name, err))
				return
			}
			loaded = append(loaded, filters.Filter{Name: f.Name, Description: f.Description, Predicate: p})
		}
		set := filters.NewSet(loaded)
		s.SwapFilters(set)
		log.Printf("filters replaced over http: %d", set.Len())
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "filters": set.Len()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ---- Helpers ----

func limitParam(r *http.Request, def int) int {
	limit := def
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxLimit {
			limit = n
		}
	}
	return limit
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON error: %v", err)
	}
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}
