// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger turns precinct tallies into append-only ledger rows and writes
them.

A save produces one Batch: a result row per party, a photo row per evidence
reference and a single activity log row. BuildBatch is pure, and its batch ID
is a name-based UUID over the rows, so rebuilding an unchanged precinct yields
the same ID. The SQL ledger ignores rows of a batch it already holds, which
makes retrying a partially written batch safe.

Save dispatches the three writes concurrently and waits for all of them. When
any sink fails it returns a *SaveError listing every failed sink.

# Tables

	result_row    precinct_id, municipality, party, name, votes, percentage, recorded_at
	photo_row     precinct_id, table_label, url, recorded_at, actor
	activity_log  recorded_at, precinct_id, action, actor, summary
	candidate     municipality, party, name, office, color, rank (read only)
*/
package ledger
