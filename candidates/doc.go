// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package candidates resolves the ordered candidate list for a municipality.

# Loading

	dir := candidates.NewDirectory()
	warnings := dir.Load(rows)

Rows are grouped by trimmed municipality and sorted by rank, keeping input
order for ties. Rows without a municipality are skipped; a missing rank
sorts last (models.DefaultRank). Each problem is returned as a Warning and
the rest of the input is still loaded.

# Resolving

	list := dir.Resolve("La Paz")

A municipality with no entry gets the bundled fallback list (IH, MAS-IPSP,
CC). Callers always receive a copy.
*/
package candidates
