// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-tally/models"
)

// Warning describes a candidate row that was skipped or coerced.
type Warning struct {
	Row    int // 1-based position in the input
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s", w.Row, w.Reason)
}

// Directory maps a trimmed municipality name to its ordered candidates.
type Directory struct {
	byMunicipality map[string][]models.Candidate
}

func NewDirectory() *Directory {
	return &Directory{byMunicipality: make(map[string][]models.Candidate)}
}

// Load replaces the directory contents with the given rows.
// Empty input leaves an empty directory; that is the unconfigured state,
// not an error.
func (d *Directory) Load(rows []models.CandidateRow) []Warning {
	var warnings []Warning
	next := make(map[string][]models.Candidate)

	for i, row := range rows {
		municipality := strings.TrimSpace(row.Municipality)
		if municipality == "" {
			warnings = append(warnings, Warning{Row: i + 1, Reason: "missing municipality"})
			continue
		}

		cand := models.Candidate{
			Party:  strings.TrimSpace(row.Party),
			Name:   strings.TrimSpace(row.Name),
			Office: strings.TrimSpace(row.Office),
			Color:  strings.TrimSpace(row.Color),
		}
		if cand.Office == "" {
			cand.Office = models.DefaultOffice
		}
		if cand.Color == "" {
			cand.Color = models.DefaultColor
		}

		if rank := strings.TrimSpace(row.Rank); rank != "" {
			n, err := strconv.Atoi(rank)
			if err != nil {
				warnings = append(warnings, Warning{Row: i + 1, Reason: "invalid rank " + strconv.Quote(rank)})
			} else {
				cand.Rank = &n
			}
		}

		next[municipality] = append(next[municipality], cand)
	}

	for _, list := range next {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].SortRank() < list[j].SortRank()
		})
	}

	d.byMunicipality = next
	return warnings
}

// Resolve returns the candidates for a municipality, or the fallback list
// when the municipality has no directory entry. The returned slice is a copy.
func (d *Directory) Resolve(municipality string) []models.Candidate {
	list, ok := d.Lookup(municipality)
	if !ok {
		return Fallback()
	}
	return list
}

// Lookup is Resolve without the fallback.
func (d *Directory) Lookup(municipality string) ([]models.Candidate, bool) {
	list, ok := d.byMunicipality[strings.TrimSpace(municipality)]
	if !ok {
		return nil, false
	}
	out := make([]models.Candidate, len(list))
	copy(out, list)
	return out, true
}

// Reset empties the directory.
func (d *Directory) Reset() {
	d.byMunicipality = make(map[string][]models.Candidate)
}

// Len returns the number of configured municipalities.
func (d *Directory) Len() int {
	return len(d.byMunicipality)
}

// Municipalities returns the configured municipality names, sorted.
func (d *Directory) Municipalities() []string {
	names := make([]string, 0, len(d.byMunicipality))
	for name := range d.byMunicipality {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fallback returns a fresh copy of the bundled default candidates used for
// any municipality without a directory entry.
func Fallback() []models.Candidate {
	rank := func(n int) *int { return &n }
	return []models.Candidate{
		{Party: "IH", Name: "Innovación Humana", Office: "Alcalde", Color: "#8B5CF6", Rank: rank(1)},
		{Party: "MAS-IPSP", Name: "MAS-IPSP", Office: "Alcalde", Color: "#1E3A8A", Rank: rank(2)},
		{Party: "CC", Name: "Comunidad Ciudadana", Office: "Alcalde", Color: "#F97316", Rank: rank(3)},
	}
}

// LoadFile reads candidate rows from a YAML or JSON seed file.
func LoadFile(path string) ([]models.CandidateRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate file: %w", err)
	}

	var rows []models.CandidateRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse candidate file: %w", err)
	}
	return rows, nil
}
