// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconcile rebuilds in-memory tallies from the rows already written
to the ledger.

	store, report := reconcile.Reconcile(index, voteRows, photoRows)

Vote rows have no table column and are merged into table 1. Photo rows carry
a label like "Mesa 3"; ParseTableLabel recovers the index from it.

Rows without a precinct id, party or url, rows for a precinct that is not in
the reference list, and photos for a table outside the precinct's range are
dropped. Each one is listed in Report.Diagnostics with its stream and row
number. Unparseable vote counts are stored as 0 and listed as well, without
being dropped.

The result is a fresh store. Callers swap it in only after both row streams
were read successfully.
*/
package reconcile
