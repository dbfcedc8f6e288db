// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-tally/candidates"
	"github.com/danielhkuo/quickly-tally/ledger"
	"github.com/danielhkuo/quickly-tally/metrics"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/reconcile"
	"github.com/danielhkuo/quickly-tally/refdata"
	"github.com/danielhkuo/quickly-tally/tally"
)

// Entry kinds reported to metrics.EntriesTotal.
const (
	entryVote        = "vote"
	entryPhotoAdd    = "photo_add"
	entryPhotoRemove = "photo_remove"
)

// ErrCandidateSource wraps failures to read the candidate source.
var ErrCandidateSource = errors.New("candidate source unavailable")

// CandidateSource supplies candidate directory rows.
type CandidateSource interface {
	ReadCandidates(ctx context.Context) ([]models.CandidateRow, error)
}

// FileSource reads candidate rows from a YAML or JSON file.
type FileSource string

func (f FileSource) ReadCandidates(ctx context.Context) ([]models.CandidateRow, error) {
	return candidates.LoadFile(string(f))
}

type Options struct {
	// Candidates overrides the candidate source. When nil the ledger is used
	// if it can read candidates.
	Candidates CandidateSource
	// Now defaults to time.Now.
	Now func() time.Time
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Department string
	Status     tally.Status
	Query      string
}

// Session owns the editing state of one tally operator console: the
// candidate directory, the tally store and the ledger collaborator.
// All methods are safe for concurrent use; they run one at a time.
type Session struct {
	mu sync.Mutex

	index  *refdata.Index
	dir    *candidates.Directory
	store  *tally.Store
	ledger ledger.Ledger
	source CandidateSource
	now    func() time.Time

	// pending holds batches whose last save failed, keyed by precinct id,
	// until the precinct is edited again.
	pending map[string]ledger.Batch
}

func New(index *refdata.Index, dir *candidates.Directory, l ledger.Ledger, opts Options) *Session {
	if dir == nil {
		dir = candidates.NewDirectory()
	}
	s := &Session{
		index:   index,
		dir:     dir,
		store:   tally.NewStore(index),
		ledger:  l,
		source:  opts.Candidates,
		now:     opts.Now,
		pending: make(map[string]ledger.Batch),
	}
	if s.source == nil {
		if src, ok := l.(CandidateSource); ok {
			s.source = src
		}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ReloadCandidates replaces the candidate directory from the source. On a
// read error the current directory is kept.
func (s *Session) ReloadCandidates(ctx context.Context) ([]candidates.Warning, error) {
	if s.source == nil {
		return nil, nil
	}
	rows, err := s.source.ReadCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCandidateSource, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	warnings := s.dir.Load(rows)
	for _, w := range warnings {
		slog.Warn("candidate row coerced or skipped", "row", w.Row, "reason", w.Reason)
	}
	slog.Info("candidate directory loaded", "rows", len(rows), "municipalities", s.dir.Len())
	return warnings, nil
}

// Load rebuilds the tally store from the ledger. Both streams are read
// before anything changes; if either read fails the current store is kept.
// Unsaved edits are discarded.
func (s *Session) Load(ctx context.Context) (reconcile.Report, error) {
	votes, err := s.ledger.ReadVotes(ctx)
	if err != nil {
		return reconcile.Report{}, fmt.Errorf("failed to read vote rows: %w", err)
	}
	photos, err := s.ledger.ReadPhotos(ctx)
	if err != nil {
		return reconcile.Report{}, fmt.Errorf("failed to read photo rows: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, report := reconcile.Reconcile(s.index, votes, photos)
	s.store = store
	s.pending = make(map[string]ledger.Batch)

	recordReconcileMetrics(len(votes), len(photos), report)
	for _, d := range report.Diagnostics {
		slog.Warn("ledger row", "stream", d.Stream, "row", d.Row, "precinct_id", d.PrecinctID, "reason", d.Reason, "dropped", d.Dropped)
	}
	slog.Info("ledger reconciled",
		"vote_rows", len(votes),
		"photo_rows", len(photos),
		"precincts", report.Precincts,
		"dropped", report.Dropped(),
	)
	return report, nil
}

func recordReconcileMetrics(votes, photos int, report reconcile.Report) {
	dropped := map[string]int{}
	coerced := map[string]int{}
	for _, d := range report.Diagnostics {
		if d.Dropped {
			dropped[d.Stream]++
		} else {
			coerced[d.Stream]++
		}
	}
	for stream, total := range map[string]int{reconcile.StreamVotes: votes, reconcile.StreamPhotos: photos} {
		metrics.ReconcileRows.WithLabelValues(stream, "applied").Add(float64(total - dropped[stream]))
		metrics.ReconcileRows.WithLabelValues(stream, "dropped").Add(float64(dropped[stream]))
		metrics.ReconcileRows.WithLabelValues(stream, "coerced").Add(float64(coerced[stream]))
	}
}

// Open returns the precinct detail, creating its tally on first use.
func (s *Session) Open(precinctID string) (models.PrecinctDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, err := s.store.Open(precinctID)
	if err != nil {
		return models.PrecinctDetail{}, err
	}
	return s.detail(pt.Precinct(), pt), nil
}

// Detail returns the precinct detail without creating a tally.
func (s *Session) Detail(precinctID string) (models.PrecinctDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.index.Precinct(precinctID)
	if !ok {
		return models.PrecinctDetail{}, fmt.Errorf("%w: %q", tally.ErrUnknownPrecinct, precinctID)
	}
	pt, _ := s.store.Lookup(precinctID)
	return s.detail(p, pt), nil
}

func (s *Session) detail(p models.Precinct, pt *tally.PrecinctTally) models.PrecinctDetail {
	cands := s.dir.Resolve(p.Municipality)
	status := tally.Classify(p, pt)

	d := models.PrecinctDetail{
		Precinct:   p,
		Status:     string(status),
		Candidates: cands,
		Tables:     make([]models.TableView, 0, p.Tables()),
		Totals:     []models.TotalLine{},
	}

	for i := 1; i <= p.Tables(); i++ {
		view := models.TableView{
			Index:    i,
			Progress: string(tally.ProgressEmpty),
			Votes:    map[string]int{},
			Photos:   []string{},
		}
		if pt != nil {
			if t, ok := pt.Table(i); ok {
				view.Progress = string(tally.TableProgress(t))
				view.Votes = t.Votes()
				view.Photos = t.Photos()
			}
		}
		d.Tables = append(d.Tables, view)
	}

	if pt != nil {
		d.Flushed = pt.Flushed()
		d.Totals, d.TotalVotes = tally.Summary(pt, cands)
	}
	return d
}

// RecordVote stores a vote count and returns the parsed value.
func (s *Session) RecordVote(precinctID string, table int, party, raw string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	votes, err := s.store.RecordVote(precinctID, table, party, raw)
	if err != nil {
		return 0, err
	}
	if _, clean := tally.ParseVotes(raw); !clean {
		slog.Warn("vote value coerced", "precinct_id", precinctID, "table", table, "party", party, "raw", raw, "votes", votes)
	}
	s.edited(precinctID, entryVote)
	return votes, nil
}

func (s *Session) AddPhoto(precinctID string, table int, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AddPhoto(precinctID, table, url); err != nil {
		return err
	}
	s.edited(precinctID, entryPhotoAdd)
	return nil
}

// RemovePhoto deletes a photo by position; an unknown position is ignored.
func (s *Session) RemovePhoto(precinctID string, table, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.RemovePhoto(precinctID, table, position); err != nil {
		return err
	}
	s.edited(precinctID, entryPhotoRemove)
	return nil
}

func (s *Session) edited(precinctID, kind string) {
	delete(s.pending, precinctID)
	metrics.EntriesTotal.WithLabelValues(kind).Inc()
}

// Status classifies one precinct.
func (s *Session) Status(precinctID string) (tally.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.index.Precinct(precinctID)
	if !ok {
		return "", fmt.Errorf("%w: %q", tally.ErrUnknownPrecinct, precinctID)
	}
	pt, _ := s.store.Lookup(precinctID)
	return tally.Classify(p, pt), nil
}

// Save writes the precinct to the ledger as one batch. The tally is marked
// flushed only when every sink succeeded. A failed batch is kept and sent
// again unchanged by the next Save from the same actor, unless the precinct
// is edited first.
// The session lock is held for the whole write.
func (s *Session) Save(ctx context.Context, precinctID, actor string) (models.SaveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.index.Precinct(precinctID)
	if !ok {
		return models.SaveResponse{}, fmt.Errorf("%w: %q", tally.ErrUnknownPrecinct, precinctID)
	}
	pt, _ := s.store.Lookup(precinctID)

	if actor == "" {
		actor = models.ActorPlaceholder
	}
	b, retry := s.pending[precinctID]
	if retry && b.Log.Actor != actor {
		retry = false
	}
	if !retry {
		var err error
		b, err = ledger.BuildBatch(p, pt, s.dir.Resolve(p.Municipality), actor, s.now())
		if err != nil {
			metrics.SavesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return models.SaveResponse{}, err
		}
	}

	if err := ledger.Save(ctx, s.ledger, b); err != nil {
		s.pending[precinctID] = b
		metrics.SavesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return models.SaveResponse{}, err
	}

	delete(s.pending, precinctID)
	pt.MarkFlushed()
	metrics.SavesTotal.WithLabelValues(metrics.OutcomeSaved).Inc()
	slog.Info("precinct saved",
		"precinct_id", precinctID,
		"batch_id", b.ID,
		"results", len(b.Results),
		"photos", len(b.Photos),
		"actor", b.Log.Actor,
		"retry", retry,
	)

	return models.SaveResponse{
		BatchID:    b.ID,
		Results:    len(b.Results),
		Photos:     len(b.Photos),
		TotalVotes: b.TotalVotes,
		Message:    fmt.Sprintf("Guardado: %s votos, %d fotos", humanize.Comma(int64(b.TotalVotes)), len(b.Photos)),
	}, nil
}

// Stats counts the reference precincts by status.
func (s *Session) Stats() models.StatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st models.StatsResponse
	for _, p := range s.index.All() {
		pt, _ := s.store.Lookup(p.ID)
		switch tally.Classify(p, pt) {
		case tally.StatusComplete:
			st.Complete++
		case tally.StatusPartial:
			st.Partial++
		default:
			st.Pending++
		}
	}
	return st
}

// List returns the precincts matching f in reference order.
func (s *Session) List(f Filter) []models.PrecinctSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.PrecinctSummary{}
	for _, p := range s.index.Search(f.Department, f.Query) {
		pt, _ := s.store.Lookup(p.ID)
		status := tally.Classify(p, pt)
		if f.Status != "" && status != f.Status {
			continue
		}
		out = append(out, models.PrecinctSummary{
			Precinct: p,
			Status:   string(status),
			Color:    status.Color(),
		})
	}
	return out
}

func (s *Session) Departments() []string {
	return s.index.Departments()
}

// Municipalities lists the municipalities with a configured ballot.
func (s *Session) Municipalities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir.Municipalities()
}

// Candidates resolves the ballot for a municipality.
func (s *Session) Candidates(municipality string) models.CandidatesResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, configured := s.dir.Lookup(municipality)
	return models.CandidatesResponse{
		Municipality: municipality,
		Configured:   configured,
		Candidates:   s.dir.Resolve(municipality),
	}
}
