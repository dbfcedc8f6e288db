// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"

	"github.com/danielhkuo/quickly-tally/models"
)

// Reader reads the ledger's persisted rows in append order.
type Reader interface {
	ReadVotes(ctx context.Context) ([]models.VoteRow, error)
	ReadPhotos(ctx context.Context) ([]models.PhotoRow, error)
}

// Appender appends rows to the ledger. Implementations must ignore rows of
// a batch they already hold, so a retried batch never duplicates.
type Appender interface {
	AppendResults(ctx context.Context, batchID string, rows []models.ResultRow) error
	AppendPhotos(ctx context.Context, batchID string, rows []models.PhotoEntry) error
	AppendLog(ctx context.Context, batchID string, entry models.LogEntry) error
}

type Ledger interface {
	Reader
	Appender
}
