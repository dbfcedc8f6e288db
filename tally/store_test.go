// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/quickly-tally/models"
)

type precinctMap map[string]models.Precinct

func (m precinctMap) Precinct(id string) (models.Precinct, bool) {
	p, ok := m[id]
	return p, ok
}

func testPrecincts() precinctMap {
	return precinctMap{
		"P1": {ID: "P1", Name: "Escuela Uno", Municipality: "La Paz", Department: "La Paz", TableCount: 1},
		"P2": {ID: "P2", Name: "Colegio Dos", Municipality: "La Paz", Department: "La Paz", TableCount: 2},
		"P0": {ID: "P0", Name: "Sin Mesas", Municipality: "Sucre", Department: "Chuquisaca", TableCount: 0},
	}
}

func TestParseVotes(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"12", 12, true},
		{"  7 ", 7, true},
		{"", 0, true},
		{"0", 0, true},
		{"+4", 4, true},
		{"-5", 0, false},
		{"abc", 0, false},
		{"12abc", 12, false},
		{"3.7", 3, false},
		{"-", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseVotes(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseVotes(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRecordVote(t *testing.T) {
	s := NewStore(testPrecincts())

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"numeric", "10", 10},
		{"negative clamps to zero", "-3", 0},
		{"non-numeric coerces to zero", "diez", 0},
		{"last write wins", "25", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.RecordVote("P2", 1, "A", tt.raw)
			if err != nil {
				t.Fatalf("RecordVote failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
			pt, _ := s.Lookup("P2")
			table, _ := pt.Table(1)
			if table.Votes()["A"] != tt.want {
				t.Errorf("Stored value %d, want %d", table.Votes()["A"], tt.want)
			}
		})
	}
}

func TestRecordVoteValidation(t *testing.T) {
	s := NewStore(testPrecincts())

	tests := []struct {
		name       string
		precinct   string
		table      int
		party      string
		validation bool
		unknown    bool
	}{
		{"unknown precinct", "NOPE", 1, "A", false, true},
		{"table zero", "P2", 0, "A", true, false},
		{"table above count", "P2", 3, "A", true, false},
		{"empty party", "P2", 1, "  ", true, false},
		{"unknown count allows table 1 only", "P0", 2, "A", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecordVote(tt.precinct, tt.table, tt.party, "5")
			if err == nil {
				t.Fatal("Expected error")
			}
			if IsValidation(err) != tt.validation {
				t.Errorf("IsValidation = %v, want %v (err: %v)", IsValidation(err), tt.validation, err)
			}
			if errors.Is(err, ErrUnknownPrecinct) != tt.unknown {
				t.Errorf("ErrUnknownPrecinct = %v, want %v", errors.Is(err, ErrUnknownPrecinct), tt.unknown)
			}
		})
	}

	if s.Len() != 0 {
		t.Errorf("Rejected calls must not create tallies, got %d", s.Len())
	}

	if _, err := s.RecordVote("P0", 1, "A", "5"); err != nil {
		t.Errorf("Table 1 must be accepted when the count is unknown: %v", err)
	}
}

func TestPhotos(t *testing.T) {
	s := NewStore(testPrecincts())

	if err := s.AddPhoto("P1", 1, "   "); !IsValidation(err) {
		t.Fatalf("Expected validation error for blank url, got %v", err)
	}
	if _, ok := s.Lookup("P1"); ok {
		t.Fatal("Blank url must not create a tally")
	}

	for _, url := range []string{"https://img/a", " https://img/b ", "https://img/a"} {
		if err := s.AddPhoto("P1", 1, url); err != nil {
			t.Fatalf("AddPhoto failed: %v", err)
		}
	}

	pt, _ := s.Lookup("P1")
	table, _ := pt.Table(1)
	want := []string{"https://img/a", "https://img/b", "https://img/a"}
	if diff := cmp.Diff(want, table.Photos()); diff != "" {
		t.Errorf("photos mismatch (-want +got):\n%s", diff)
	}

	// Out of range positions are ignored.
	for _, pos := range []int{-1, 3, 100} {
		if err := s.RemovePhoto("P1", 1, pos); err != nil {
			t.Errorf("RemovePhoto(%d) returned %v", pos, err)
		}
	}
	if len(table.Photos()) != 3 {
		t.Fatalf("Expected 3 photos after no-op removals, got %d", len(table.Photos()))
	}

	if err := s.RemovePhoto("P1", 1, 0); err != nil {
		t.Fatalf("RemovePhoto failed: %v", err)
	}
	want = []string{"https://img/b", "https://img/a"}
	if diff := cmp.Diff(want, table.Photos()); diff != "" {
		t.Errorf("photos after removal mismatch (-want +got):\n%s", diff)
	}

	// Removing from an untouched table is a no-op.
	if err := s.RemovePhoto("P2", 2, 0); err != nil {
		t.Errorf("RemovePhoto on untouched table returned %v", err)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := NewStore(testPrecincts())
	s.RecordVote("P1", 1, "A", "3")
	s.AddPhoto("P1", 1, "u")

	pt, _ := s.Lookup("P1")
	table, _ := pt.Table(1)
	table.Votes()["A"] = 99
	table.Photos()[0] = "changed"

	if table.Votes()["A"] != 3 || table.Photos()[0] != "u" {
		t.Error("Accessors must not expose internal state")
	}
}

func TestTotalsNeverDrift(t *testing.T) {
	s := NewStore(testPrecincts())
	s.RecordVote("P2", 1, "A", "10")
	pt, _ := s.Lookup("P2")

	if pt.Totals()["A"] != 10 {
		t.Fatalf("Expected A=10, got %v", pt.Totals())
	}

	s.RecordVote("P2", 2, "A", "5")
	if pt.Totals()["A"] != 15 {
		t.Errorf("Totals must follow table votes, got %v", pt.Totals())
	}

	s.RecordVote("P2", 1, "A", "0")
	if pt.Totals()["A"] != 5 {
		t.Errorf("Totals must follow overwrite, got %v", pt.Totals())
	}
}

func TestFlushedLifecycle(t *testing.T) {
	s := NewStore(testPrecincts())
	s.RecordVote("P1", 1, "A", "1")
	pt, _ := s.Lookup("P1")

	if pt.Flushed() {
		t.Fatal("New tally must not be flushed")
	}
	pt.MarkFlushed()
	if !pt.Flushed() {
		t.Fatal("Expected flushed after MarkFlushed")
	}
	s.AddPhoto("P1", 1, "u")
	if pt.Flushed() {
		t.Error("Mutation must clear flushed state")
	}
}

func TestStoreIDsAndReset(t *testing.T) {
	s := NewStore(testPrecincts())
	s.Open("P2")
	s.Open("P1")
	if _, err := s.Open("NOPE"); !errors.Is(err, ErrUnknownPrecinct) {
		t.Errorf("Expected ErrUnknownPrecinct, got %v", err)
	}

	if diff := cmp.Diff([]string{"P1", "P2"}, s.PrecinctIDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	pt, _ := s.Lookup("P1")
	if pt.HasData() {
		t.Error("Opened tally without entries has no data")
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Expected empty store after Reset, got %d", s.Len())
	}
}
