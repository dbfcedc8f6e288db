// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-tally/models"
)

// SQL is a Ledger backed by the tables created by db.CreateSchema.
type SQL struct {
	db *sql.DB
}

// NewSQL wraps an open database whose schema is already created.
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

// ReadVotes returns every result row in insertion order.
func (s *SQL) ReadVotes(ctx context.Context) ([]models.VoteRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT precinct_id, party, votes
		FROM result_row
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query result rows: %w", err)
	}
	defer rows.Close()

	out := []models.VoteRow{}
	for rows.Next() {
		var r models.VoteRow
		if err := rows.Scan(&r.PrecinctID, &r.Party, &r.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReadPhotos returns every photo row in insertion order.
func (s *SQL) ReadPhotos(ctx context.Context) ([]models.PhotoRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT precinct_id, table_label, url
		FROM photo_row
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query photo rows: %w", err)
	}
	defer rows.Close()

	out := []models.PhotoRow{}
	for rows.Next() {
		var r models.PhotoRow
		if err := rows.Scan(&r.PrecinctID, &r.TableLabel, &r.URL); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReadCandidates returns the candidate directory rows in insertion order.
func (s *SQL) ReadCandidates(ctx context.Context) ([]models.CandidateRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT municipality, party, name, office, color, rank
		FROM candidate
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	out := []models.CandidateRow{}
	for rows.Next() {
		var r models.CandidateRow
		if err := rows.Scan(&r.Municipality, &r.Party, &r.Name, &r.Office, &r.Color, &r.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AppendResults inserts the result rows of a batch. Rows already stored
// under batchID are skipped.
func (s *SQL) AppendResults(ctx context.Context, batchID string, rows []models.ResultRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, r := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO result_row (batch_id, seq, precinct_id, municipality, party, name, votes, percentage, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (batch_id, seq) DO NOTHING
		`, batchID, i, r.PrecinctID, r.Municipality, r.Party, r.Name, r.Votes, r.Percentage, r.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert result row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result rows: %w", err)
	}
	return nil
}

// AppendPhotos inserts the photo rows of a batch, skipping ones already stored.
func (s *SQL) AppendPhotos(ctx context.Context, batchID string, rows []models.PhotoEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, r := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO photo_row (batch_id, seq, precinct_id, table_label, url, recorded_at, actor)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (batch_id, seq) DO NOTHING
		`, batchID, i, r.PrecinctID, r.TableLabel, r.URL, r.Timestamp, r.Actor)
		if err != nil {
			return fmt.Errorf("failed to insert photo row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit photo rows: %w", err)
	}
	return nil
}

// AppendLog inserts the activity entry for a batch once.
func (s *SQL) AppendLog(ctx context.Context, batchID string, e models.LogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_log (batch_id, recorded_at, precinct_id, action, actor, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (batch_id) DO NOTHING
	`, batchID, e.Timestamp, e.PrecinctID, e.Action, e.Actor, e.Summary)
	if err != nil {
		return fmt.Errorf("failed to insert log row: %w", err)
	}
	return nil
}
