// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/quickly-tally/models"
)

func TestAggregateTwoTables(t *testing.T) {
	s := NewStore(testPrecincts())
	s.RecordVote("P2", 1, "A", "10")
	s.RecordVote("P2", 1, "B", "5")
	s.RecordVote("P2", 2, "A", "7")
	s.RecordVote("P2", 2, "B", "3")

	pt, _ := s.Lookup("P2")
	got := Aggregate(pt)

	want := Totals{ByParty: map[string]int{"A": 17, "B": 8}, TotalVotes: 25}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}

	if p := LedgerPercent(17, 25); p != "68.00" {
		t.Errorf("Expected 68.00, got %s", p)
	}
	if p := LedgerPercent(8, 25); p != "32.00" {
		t.Errorf("Expected 32.00, got %s", p)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	s := NewStore(testPrecincts())
	s.RecordVote("P2", 1, "A", "3")
	s.RecordVote("P2", 2, "B", "9")
	pt, _ := s.Lookup("P2")

	first := Aggregate(pt)
	second := Aggregate(pt)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second aggregation differs (-first +second):\n%s", diff)
	}
	for party, v := range first.ByParty {
		if LedgerPercent(v, first.TotalVotes) != LedgerPercent(second.ByParty[party], second.TotalVotes) {
			t.Errorf("Percentage for %s changed between calls", party)
		}
	}

	first.ByParty["A"] = 1000
	if pt.Totals()["A"] != 3 {
		t.Error("Returned totals must not alias the cache")
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		part, total int
		display     float64
		ledger      string
	}{
		{0, 0, 0, "0.00"},
		{5, 0, 0, "0.00"},
		{1, 3, 33.3, "33.33"},
		{2, 3, 66.7, "66.67"},
		{1, 8, 12.5, "12.50"},
		{7, 7, 100, "100.00"},
	}

	for _, tt := range tests {
		if got := DisplayPercent(tt.part, tt.total); got != tt.display {
			t.Errorf("DisplayPercent(%d, %d) = %v, want %v", tt.part, tt.total, got, tt.display)
		}
		if got := LedgerPercent(tt.part, tt.total); got != tt.ledger {
			t.Errorf("LedgerPercent(%d, %d) = %s, want %s", tt.part, tt.total, got, tt.ledger)
		}
	}
}

func TestSummary(t *testing.T) {
	s := NewStore(testPrecincts())
	s.RecordVote("P2", 1, "A", "1500")
	s.RecordVote("P2", 1, "B", "0")
	s.RecordVote("P2", 2, "X", "500")
	pt, _ := s.Lookup("P2")

	cands := []models.Candidate{
		{Party: "B", Name: "Bravo", Color: "#111111"},
		{Party: "A", Name: "Alfa", Color: "#222222"},
	}

	lines, total := Summary(pt, cands)
	if total != 2000 {
		t.Errorf("Expected total 2000, got %d", total)
	}

	want := []models.TotalLine{
		{Party: "A", Name: "Alfa", Color: "#222222", Votes: 1500, Percentage: 75, Label: "1,500 votos (75.0%)"},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := NewStore(testPrecincts())
	pt, _ := s.Open("P1")

	lines, total := Summary(pt, nil)
	if total != 0 || len(lines) != 0 {
		t.Errorf("Expected empty summary, got %v %d", lines, total)
	}
}
