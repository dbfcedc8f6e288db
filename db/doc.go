// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the ledger.

# Schema Creation

CreateSchema initializes all required tables for SQLite or PostgreSQL:

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The only dialect difference is the auto-increment id column.

# Tables

  - result_row: per-party precinct totals written on save
  - photo_row: photo evidence references with their "Mesa N" label
  - activity_log: one GUARDADO entry per save
  - candidate: the candidate directory, read on reload

The ledger is append-only. Rows are read back in id order, which is append
order. result_row and photo_row are unique on (batch_id, seq) and
activity_log on batch_id, so appending the same batch twice adds nothing.
*/
package db
