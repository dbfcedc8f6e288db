// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the tally console API.

# Handler Types

Each handler is a struct over the shared *session.Session:

  - PrecinctHandler: listing, detail, per-table entry and save
  - LedgerHandler: rebuilding tallies from the ledger
  - CandidateHandler: candidate directory reload and lookup

	precinctHandler := handlers.NewPrecinctHandler(sess, cfg)

# Entry

	PUT    /precincts/{id}/tables/{table}/votes/{party}  → RecordVote
	POST   /precincts/{id}/tables/{table}/photos         → AddPhoto
	DELETE /precincts/{id}/tables/{table}/photos/{pos}   → RemovePhoto

Vote values are parsed leniently: "12", 12 and "12abc" store 12, while
negative or non-numeric input stores 0.

# Saving

	POST /precincts/{id}/save → SavePrecinct

The operator is identified by X-Operator-Email and X-Operator-Key. Without an
email the save is attributed to "Sistema Web".

# Errors

	400  malformed input, table out of range, blank party or url
	401  operator key does not match the email
	404  precinct not in the reference list
	422  save requested for a precinct without data
	502  ledger read or write failed; the body lists failed sinks
*/
package handlers
