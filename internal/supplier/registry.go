package supplier

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/fsatomic"
)

// Supplier is a deduplicated, fuzzy-matched supplier record (§3).
type Supplier struct {
	Name     string `json:"name"`
	Supplies string `json:"supplies"`
	Account  string `json:"account,omitempty"`
}

// Registry is the in-memory Supplier Registry with exclusive-writer,
// multiple-reader semantics (§5), persisted as a canonical JSON array
// sorted by name with 2-space indentation (§4.E).
type Registry struct {
	mu   sync.RWMutex
	byName map[string]Supplier
	path string
}

// New creates an empty registry persisting to path.
func New(path string) *Registry {
	return &Registry{byName: make(map[string]Supplier), path: path}
}

// Load replaces the registry's contents from the persisted JSON array.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.IOError("failed to read supplier registry", err)
	}
	suppliers, err := Decode(data)
	if err != nil {
		return err
	}
	r.ReplaceAll(suppliers)
	return nil
}

// Decode parses a JSON supplier array the same way Load does.
func Decode(data []byte) ([]Supplier, error) {
	var suppliers []Supplier
	if err := json.Unmarshal(data, &suppliers); err != nil {
		return nil, errs.IOError("failed to parse supplier registry", err)
	}
	return suppliers, nil
}

// Encode serializes suppliers sorted by name with 2-space indentation,
// the same canonical form Save writes (§4.E "byte-stable for equal
// logical content").
func Encode(suppliers []Supplier) ([]byte, error) {
	sorted := make([]Supplier, len(suppliers))
	copy(sorted, suppliers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return nil, errs.IOError("failed to marshal supplier registry", err)
	}
	return data, nil
}

// ReplaceAll swaps the registry's in-memory suppliers for suppliers.
func (r *Registry) ReplaceAll(suppliers []Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = make(map[string]Supplier, len(suppliers))
	for _, s := range suppliers {
		r.byName[s.Name] = s
	}
}

// Save writes the registry sorted by name with 2-space indentation,
// atomically (write-temp-then-rename).
func (r *Registry) Save() error {
	r.mu.RLock()
	suppliers := make([]Supplier, 0, len(r.byName))
	for _, s := range r.byName {
		suppliers = append(suppliers, s)
	}
	r.mu.RUnlock()

	data, err := Encode(suppliers)
	if err != nil {
		return err
	}
	return fsatomic.Write(r.path, data)
}

// findFuzzyLocked returns the existing supplier fuzzy-matching name, if
// any. Caller must hold at least a read lock.
func (r *Registry) findFuzzyLocked(name string) (Supplier, bool) {
	for _, s := range r.byName {
		if FuzzyEqual(s.Name, name) {
			return s, true
		}
	}
	return Supplier{}, false
}

// Create adds a new supplier. Refuses with Conflict when a fuzzy match
// already exists, directing the caller to Update (§4.E).
func (r *Registry) Create(name, supplies, account string) (Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return Supplier{}, errs.Validation("name", "supplier name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.findFuzzyLocked(name); ok {
		return Supplier{}, errs.Conflict(
			"a supplier matching \""+name+"\" already exists (\""+existing.Name+"\")",
			"use update_supplier")
	}
	s := Supplier{Name: name, Supplies: supplies, Account: account}
	r.byName[name] = s
	return s, nil
}

// Read looks up a supplier by query. When exactMatch is true, only the
// literal name is tried; otherwise fuzzy matching applies.
func (r *Registry) Read(query string, exactMatch bool) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.byName[query]; ok {
		return s, nil
	}
	if exactMatch {
		return Supplier{}, errs.NotFound("no supplier named " + query)
	}
	if s, ok := r.findFuzzyLocked(query); ok {
		return s, nil
	}
	return Supplier{}, errs.NotFound("no supplier matching " + query)
}

// Update applies the non-nil fields to the supplier named name.
func (r *Registry) Update(name string, supplies, account *string) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byName[name]
	if !ok {
		if fuzzy, found := r.findFuzzyLocked(name); found {
			s, ok = fuzzy, true
			name = s.Name
		}
	}
	if !ok {
		return Supplier{}, errs.NotFound("no supplier named " + name)
	}
	if supplies != nil {
		s.Supplies = *supplies
	}
	if account != nil {
		s.Account = *account
	}
	r.byName[name] = s
	return s, nil
}

// Delete removes the supplier named name. Refuses unless confirm is true
// (§4.E, §7 missing confirmation on destructive ops).
func (r *Registry) Delete(name string, confirm bool) error {
	if !confirm {
		return errs.Validation("confirm", "deleting a supplier requires confirm=true")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; !ok {
		return errs.NotFound("no supplier named " + name)
	}
	delete(r.byName, name)
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	NameContains string
	Account      string
}

// SortOrder for List.
type SortOrder string

const (
	SortByName SortOrder = "name"
)

// List returns suppliers matching filter, sorted by sortBy, capped at
// limit (0 means unlimited).
func (r *Registry) List(filter ListFilter, sortBy SortOrder, limit int) []Supplier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Supplier
	for _, s := range r.byName {
		if filter.NameContains != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.NameContains)) {
			continue
		}
		if filter.Account != "" && s.Account != filter.Account {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MatchFuzzy ranks every registered supplier against description by
// fuzzy Score, returning the top maxCandidates in descending score
// order (§4.G match_supplier_fuzzy).
func (r *Registry) MatchFuzzy(description string, maxCandidates int) []Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var candidates []Candidate
	for _, s := range r.byName {
		score := Score(description, s.Name)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{Supplier: s, Score: score})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Supplier.Name < candidates[j].Supplier.Name
	})
	if maxCandidates > 0 && len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// Candidate pairs a supplier with its fuzzy match score.
type Candidate struct {
	Supplier Supplier `json:"supplier"`
	Score    float64  `json:"score"`
}
