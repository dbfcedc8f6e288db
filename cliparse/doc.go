// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: ledger database, a SQLite path or PostgreSQL DSN (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - PrecinctsFile: precinct reference list (required)
  - CandidatesFile: candidate seed file (optional)
  - OperatorKeySalt: Secret for operator key HMAC (required)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-precincts      Precinct reference file
	-candidates     Candidate seed file
	-operator-salt  Operator key salt
	-env            .env file to load (default .env)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	PRECINCTS_FILE    → -precincts
	CANDIDATES_FILE   → -candidates
	OPERATOR_KEY_SALT → -operator-salt

The -env file is loaded with godotenv before the fallback runs. It never
overrides variables that are already set, and a missing file is ignored.
CLI flags take precedence over both.
*/
package cliparse
