// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-tally/models"
)

// PrecinctLookup resolves reference data for a precinct id.
type PrecinctLookup interface {
	Precinct(id string) (models.Precinct, bool)
}

// Table is the tally of one ballot table.
type Table struct {
	votes  map[string]int
	photos []string
}

func newTable() *Table {
	return &Table{votes: make(map[string]int)}
}

// Votes returns a copy of the party -> votes map.
func (t *Table) Votes() map[string]int {
	return maps.Clone(t.votes)
}

// Photos returns a copy of the photo references in insertion order.
func (t *Table) Photos() []string {
	return slices.Clone(t.photos)
}

// HasVotes reports whether any party has a vote entry on the table.
func (t *Table) HasVotes() bool { return len(t.votes) > 0 }

// HasPhotos reports whether the table holds at least one photo.
func (t *Table) HasPhotos() bool { return len(t.photos) > 0 }

// PrecinctTally holds the tables of one precinct and the cached totals
// derived from them.
type PrecinctTally struct {
	precinct models.Precinct
	tables   map[int]*Table

	totals  map[string]int
	stale   bool
	flushed bool
}

func newPrecinctTally(p models.Precinct) *PrecinctTally {
	return &PrecinctTally{
		precinct: p,
		tables:   make(map[int]*Table),
		totals:   make(map[string]int),
	}
}

// Precinct returns the reference data the tally was opened with.
func (pt *PrecinctTally) Precinct() models.Precinct { return pt.precinct }

// Table returns the table at index, if it has been touched.
func (pt *PrecinctTally) Table(index int) (*Table, bool) {
	t, ok := pt.tables[index]
	return t, ok
}

// Indexes returns the touched table indexes in ascending order.
func (pt *PrecinctTally) Indexes() []int {
	idx := make([]int, 0, len(pt.tables))
	for i := range pt.tables {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// HasData reports whether any table holds a vote entry or a photo.
func (pt *PrecinctTally) HasData() bool {
	for _, t := range pt.tables {
		if t.HasVotes() || t.HasPhotos() {
			return true
		}
	}
	return false
}

// Totals returns the per-party totals, recomputing them if a table changed
// since the last aggregation.
func (pt *PrecinctTally) Totals() map[string]int {
	if pt.stale {
		Aggregate(pt)
	}
	return maps.Clone(pt.totals)
}

// Flushed reports whether the current state was written to the ledger.
func (pt *PrecinctTally) Flushed() bool { return pt.flushed }

// MarkFlushed records a successful ledger write of the current state.
func (pt *PrecinctTally) MarkFlushed() { pt.flushed = true }

func (pt *PrecinctTally) touch() {
	pt.stale = true
	pt.flushed = false
}

// Store maps precinct ids to their tallies. It is not safe for concurrent
// use; one editing session owns it.
type Store struct {
	precincts PrecinctLookup
	tallies   map[string]*PrecinctTally
}

// NewStore creates an empty store that validates ids against precincts.
func NewStore(precincts PrecinctLookup) *Store {
	return &Store{
		precincts: precincts,
		tallies:   make(map[string]*PrecinctTally),
	}
}

// Open returns the tally for a precinct, creating it on first use.
func (s *Store) Open(precinctID string) (*PrecinctTally, error) {
	if pt, ok := s.tallies[precinctID]; ok {
		return pt, nil
	}
	p, ok := s.precincts.Precinct(precinctID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrecinct, precinctID)
	}
	pt := newPrecinctTally(p)
	s.tallies[precinctID] = pt
	return pt, nil
}

// Lookup returns an existing tally without creating one.
func (s *Store) Lookup(precinctID string) (*PrecinctTally, bool) {
	pt, ok := s.tallies[precinctID]
	return pt, ok
}

func (s *Store) checkIndex(precinctID string, index int) (models.Precinct, error) {
	p, ok := s.precincts.Precinct(precinctID)
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownPrecinct, precinctID)
	}
	if index < 1 || index > p.Tables() {
		return p, invalid("table %d out of range 1..%d for precinct %s", index, p.Tables(), precinctID)
	}
	return p, nil
}

// table validates before creating anything so a rejected call leaves no
// empty tally behind.
func (s *Store) table(precinctID string, index int) (*PrecinctTally, *Table, error) {
	if _, err := s.checkIndex(precinctID, index); err != nil {
		return nil, nil, err
	}
	pt, err := s.Open(precinctID)
	if err != nil {
		return nil, nil, err
	}
	t, ok := pt.tables[index]
	if !ok {
		t = newTable()
		pt.tables[index] = t
	}
	return pt, t, nil
}

// RecordVote stores the parsed vote count for a party, replacing any prior
// value. Non-numeric or negative input is stored as 0.
func (s *Store) RecordVote(precinctID string, index int, party, raw string) (int, error) {
	party = strings.TrimSpace(party)
	if party == "" {
		return 0, invalid("party code is required")
	}

	pt, t, err := s.table(precinctID, index)
	if err != nil {
		return 0, err
	}
	votes, _ := ParseVotes(raw)
	t.votes[party] = votes
	pt.touch()
	return votes, nil
}

// AddPhoto appends an evidence reference to a table.
func (s *Store) AddPhoto(precinctID string, index int, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return invalid("photo url is required")
	}

	pt, t, err := s.table(precinctID, index)
	if err != nil {
		return err
	}
	t.photos = append(t.photos, url)
	pt.touch()
	return nil
}

// RemovePhoto deletes the photo at position. An out-of-range position or an
// untouched table is a no-op.
func (s *Store) RemovePhoto(precinctID string, index, position int) error {
	if _, err := s.checkIndex(precinctID, index); err != nil {
		return err
	}
	pt, ok := s.tallies[precinctID]
	if !ok {
		return nil
	}
	t, ok := pt.tables[index]
	if !ok || position < 0 || position >= len(t.photos) {
		return nil
	}
	t.photos = slices.Delete(t.photos, position, position+1)
	pt.touch()
	return nil
}

// PrecinctIDs returns the ids of every opened precinct, sorted.
func (s *Store) PrecinctIDs() []string {
	ids := make([]string, 0, len(s.tallies))
	for id := range s.tallies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Len() int { return len(s.tallies) }

// Reset drops every tally.
func (s *Store) Reset() {
	s.tallies = make(map[string]*PrecinctTally)
}

// ParseVotes reads a leading integer from raw the way a lenient form field
// does: " 12 " is 12 and so is "12abc". Empty input is 0. Input without
// leading digits, or a negative number, is 0. ok is false whenever raw was
// not a clean non-negative integer.
func ParseVotes(raw string) (votes int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}

	end := 0
	if s[0] == '+' || s[0] == '-' {
		end = 1
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, end == len(s)
}
