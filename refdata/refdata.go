// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package refdata

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-tally/models"
)

var ErrDuplicatePrecinct = errors.New("duplicate precinct id")

var validate = validator.New()

// LoadFile reads the precinct list from a YAML or JSON file. Both formats
// use the compact keys (c, r, m, d, ms, h, la, lo).
func LoadFile(path string) ([]models.Precinct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read precinct file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a precinct list.
func Parse(data []byte) ([]models.Precinct, error) {
	var precincts []models.Precinct
	if err := yaml.Unmarshal(data, &precincts); err != nil {
		return nil, fmt.Errorf("failed to parse precinct list: %w", err)
	}

	for i := range precincts {
		p := &precincts[i]
		p.ID = strings.TrimSpace(p.ID)
		p.Municipality = strings.TrimSpace(p.Municipality)
		p.Department = strings.TrimSpace(p.Department)
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("precinct %d (%q): %w", i+1, p.ID, err)
		}
	}
	return precincts, nil
}

// Index is the read-only, ordered precinct reference list.
type Index struct {
	ordered []models.Precinct
	byID    map[string]int
}

func NewIndex(precincts []models.Precinct) (*Index, error) {
	idx := &Index{
		ordered: make([]models.Precinct, len(precincts)),
		byID:    make(map[string]int, len(precincts)),
	}
	copy(idx.ordered, precincts)

	for i, p := range idx.ordered {
		if _, dup := idx.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePrecinct, p.ID)
		}
		idx.byID[p.ID] = i
	}
	return idx, nil
}

// Precinct implements tally.PrecinctLookup.
func (idx *Index) Precinct(id string) (models.Precinct, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return models.Precinct{}, false
	}
	return idx.ordered[i], true
}

// All returns the precincts in feed order.
func (idx *Index) All() []models.Precinct {
	out := make([]models.Precinct, len(idx.ordered))
	copy(out, idx.ordered)
	return out
}

func (idx *Index) Len() int { return len(idx.ordered) }

// Departments returns the distinct department names, sorted.
func (idx *Index) Departments() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, p := range idx.ordered {
		if p.Department == "" || seen[p.Department] {
			continue
		}
		seen[p.Department] = true
		deps = append(deps, p.Department)
	}
	sort.Strings(deps)
	return deps
}

// Search returns the precincts in department (empty matches all) whose id,
// name or municipality contains query, case-insensitively.
func (idx *Index) Search(department, query string) []models.Precinct {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Precinct
	for _, p := range idx.ordered {
		if department != "" && p.Department != department {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(p.ID + " " + p.Name + " " + p.Municipality)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
