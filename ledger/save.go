// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-tally/metrics"
)

// Sink names, as reported in SaveError.Failed.
const (
	SinkResults = "results"
	SinkPhotos  = "photos"
	SinkLog     = "log"
)

// SaveError reports a save where at least one sink failed. Sinks not listed
// in Failed may have been written; retrying the same batch is safe.
type SaveError struct {
	Failed []string
	errs   []error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("ledger write failed (%s): %v", strings.Join(e.Failed, ", "), errors.Join(e.errs...))
}

func (e *SaveError) Unwrap() []error {
	return e.errs
}

// Save appends a batch. The result, photo and log writes are independent
// and run concurrently; Save waits for all of them and reports every failure.
// Empty result or photo sets are not sent.
func Save(ctx context.Context, a Appender, b Batch) error {
	type write struct {
		sink string
		fn   func(context.Context) error
	}

	var writes []write
	if len(b.Results) > 0 {
		writes = append(writes, write{SinkResults, func(ctx context.Context) error {
			return a.AppendResults(ctx, b.ID, b.Results)
		}})
	}
	if len(b.Photos) > 0 {
		writes = append(writes, write{SinkPhotos, func(ctx context.Context) error {
			return a.AppendPhotos(ctx, b.ID, b.Photos)
		}})
	}
	writes = append(writes, write{SinkLog, func(ctx context.Context) error {
		return a.AppendLog(ctx, b.ID, b.Log)
	}})

	// A plain group: one failing sink must not cancel the others.
	errs := make([]error, len(writes))
	var g errgroup.Group
	for i, w := range writes {
		g.Go(func() error {
			errs[i] = w.fn(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var saveErr *SaveError
	for i, err := range errs {
		if err == nil {
			continue
		}
		if saveErr == nil {
			saveErr = &SaveError{}
		}
		sink := writes[i].sink
		saveErr.Failed = append(saveErr.Failed, sink)
		saveErr.errs = append(saveErr.errs, fmt.Errorf("%s: %w", sink, err))
		metrics.LedgerWriteErrors.WithLabelValues(sink).Inc()
		slog.Error("ledger write failed", "sink", sink, "batch_id", b.ID, "precinct_id", b.PrecinctID, "error", err)
	}
	if saveErr != nil {
		return saveErr
	}
	return nil
}
