// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the reference data, feed rows, ledger rows and API
payloads shared by every other package.

# Reference Data

  - Precinct: id, name, municipality, department, table count, registered
    voters, coordinates. Loaded once at startup and never mutated.
  - Candidate: party code, display name, office, color, optional rank.

Precinct.Tables treats an unknown table count as a single table.
Candidate.SortRank falls back to DefaultRank when no rank was configured.

# Feed Rows

Rows read from the ledger keep every field as text:

  - CandidateRow: municipio, partido, nombre, cargo, color, orden
  - VoteRow: precinct id, party code, vote count
  - PhotoRow: precinct id, table label ("Mesa 3"), url

# Ledger Rows

Rows appended on save:

  - ResultRow: one per party with the precinct total and a 2-decimal percentage
  - PhotoEntry: one per photo with its "Mesa N" label and the operator
  - LogEntry: one per save, action GUARDADO

Timestamps use TimestampLayout. ActorPlaceholder replaces a missing
operator identity.

# API Types

Request and response payloads for the HTTP handlers, plus ErrorResponse.
RawValue accepts either a JSON string or a JSON number for vote fields.
*/
package models
