// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Tally API server.

Quickly Tally is the back end of an election-night operator console. Field
operators enter per-party vote counts and photo evidence for each ballot
table of a precinct; the server classifies precincts as pending, partial or
complete, aggregates their totals and appends saved precincts to a ledger.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=tally.db PRECINCTS_FILE=recintos.json OPERATOR_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -precincts recintos.yaml

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - PRECINCTS_FILE (-precincts): precinct reference list
  - OPERATOR_KEY_SALT (-operator-salt): Secret for operator key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CANDIDATES_FILE (-candidates): candidate seed file; without it the
    ledger's candidate table is read
  - -env: .env file (default .env)

# Startup

The reference list is loaded and validated, the ledger schema is created,
the candidate directory is read and every tally is rebuilt from the ledger
before the server starts listening.

# Architecture

  - handlers: HTTP request handlers (precincts, ledger, candidates)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - session: Operator session owning all mutable state
  - tally: Tables, completion status, aggregation
  - reconcile: Rebuilding tallies from ledger rows
  - ledger: Save batches and the SQL ledger
  - candidates: Candidate directory
  - refdata: Precinct reference list
  - metrics: Prometheus counters
  - models: Domain, request and response types
  - auth: Operator keys
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
