// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/tally"
)

// Stream names used in diagnostics.
const (
	StreamVotes  = "votes"
	StreamPhotos = "photos"
)

// LegacyVoteTable is where every vote row lands. Result rows carry no table
// index, so a multi-table precinct rebuilt from the ledger has all of its
// votes on table 1. The totals survive; the per-table split does not.
const LegacyVoteTable = 1

// Report summarises one reconciliation run.
type Report struct {
	Precincts   int
	Diagnostics []models.Diagnostic
}

// Dropped counts the rows that were skipped.
func (r Report) Dropped() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Dropped {
			n++
		}
	}
	return n
}

// Reconcile rebuilds a tally store from the ledger's vote and photo rows.
// It always starts from an empty store. Rows are applied in ledger order, so
// a later vote row for the same party replaces an earlier one. Malformed rows
// are skipped and reported; they never abort the run.
func Reconcile(precincts tally.PrecinctLookup, votes []models.VoteRow, photos []models.PhotoRow) (*tally.Store, Report) {
	store := tally.NewStore(precincts)
	var report Report

	diag := func(stream string, row int, id, reason string, dropped bool) {
		report.Diagnostics = append(report.Diagnostics, models.Diagnostic{
			Stream:     stream,
			Row:        row,
			PrecinctID: id,
			Reason:     reason,
			Dropped:    dropped,
		})
	}

	for i, r := range votes {
		row := i + 1
		id := strings.TrimSpace(r.PrecinctID)
		party := strings.TrimSpace(r.Party)

		if id == "" {
			diag(StreamVotes, row, "", "missing precinct id", true)
			continue
		}
		if party == "" {
			diag(StreamVotes, row, id, "missing party", true)
			continue
		}
		if _, ok := precincts.Precinct(id); !ok {
			diag(StreamVotes, row, id, "unknown precinct", true)
			continue
		}

		if _, ok := tally.ParseVotes(r.Votes); !ok {
			diag(StreamVotes, row, id, "unparseable vote count "+strconv.Quote(r.Votes)+" stored as 0", false)
		}
		if _, err := store.RecordVote(id, LegacyVoteTable, party, r.Votes); err != nil {
			diag(StreamVotes, row, id, err.Error(), true)
		}
	}

	for i, r := range photos {
		row := i + 1
		id := strings.TrimSpace(r.PrecinctID)
		url := strings.TrimSpace(r.URL)

		if id == "" {
			diag(StreamPhotos, row, "", "missing precinct id", true)
			continue
		}
		if url == "" {
			diag(StreamPhotos, row, id, "missing url", true)
			continue
		}
		if _, ok := precincts.Precinct(id); !ok {
			diag(StreamPhotos, row, id, "unknown precinct", true)
			continue
		}

		index, err := ParseTableLabel(r.TableLabel)
		if err != nil {
			diag(StreamPhotos, row, id, err.Error(), true)
			continue
		}
		if err := store.AddPhoto(id, index, url); err != nil {
			diag(StreamPhotos, row, id, err.Error(), true)
		}
	}

	for _, id := range store.PrecinctIDs() {
		pt, _ := store.Lookup(id)
		tally.Aggregate(pt)
	}
	report.Precincts = store.Len()

	return store, report
}

// ParseTableLabel extracts the table index from a free-text label such as
// "Mesa 3". A label without digits means table 1. A digit run too large for
// an int is an error.
func ParseTableLabel(label string) (int, error) {
	start := strings.IndexFunc(label, isDigit)
	if start < 0 {
		return 1, nil
	}
	end := start
	for end < len(label) && isDigit(rune(label[end])) {
		end++
	}
	n, err := strconv.Atoi(label[start:end])
	if err != nil {
		return 0, fmt.Errorf("invalid table label %q", label)
	}
	return n, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
