// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally holds per-table vote and photo entry for precincts and derives
completion status and totals from it.

# Store

A Store maps precinct ids to PrecinctTally values. Tallies are created on
first use and every mutation goes through the store:

	store := tally.NewStore(index)
	store.RecordVote("P-100", 1, "IH", "42")
	store.AddPhoto("P-100", 1, "https://example.org/acta.jpg")
	store.RemovePhoto("P-100", 1, 0)

Vote input is parsed leniently (ParseVotes); anything that is not a
non-negative integer is stored as 0. Table indexes run from 1 to the
precinct's declared table count. Rejected calls return a ValidationError
and leave the store unchanged.

The store has no locking. A single session owns it.

# Classification

Classify returns pending, partial or complete. A precinct is complete only
when every declared table has votes and at least one photo.

# Aggregation

Aggregate sums party votes across tables and refreshes the cached totals.
Percentages are rounded to 1 decimal for display (DisplayPercent) and to
2 decimals for ledger rows (LedgerPercent).
*/
package tally
