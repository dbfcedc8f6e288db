// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/tally"
)

// ErrNoData rejects a save for a precinct without any vote or photo.
var ErrNoData error = &tally.ValidationError{Reason: "no table data to save"}

var batchNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("quickly-tally.ledger.batch"))

// Batch is everything one save appends to the ledger.
type Batch struct {
	ID         string
	PrecinctID string
	Results    []models.ResultRow
	Photos     []models.PhotoEntry
	Log        models.LogEntry
	TotalVotes int
}

// TableLabel is the label written to photo rows for a table index.
func TableLabel(index int) string {
	return fmt.Sprintf("Mesa %d", index)
}

// BuildBatch turns a precinct tally into ledger rows. The output depends only
// on its arguments: result rows follow the candidate order, then any other
// party code alphabetically; photo rows follow table index and position.
func BuildBatch(p models.Precinct, pt *tally.PrecinctTally, candidates []models.Candidate, actor string, now time.Time) (Batch, error) {
	if pt == nil || !pt.HasData() {
		return Batch{}, ErrNoData
	}
	if actor == "" {
		actor = models.ActorPlaceholder
	}

	ts := now.Format(models.TimestampLayout)
	totals := tally.Aggregate(pt)

	names := make(map[string]string, len(candidates))
	var order []string
	for _, c := range candidates {
		if _, dup := names[c.Party]; dup {
			continue
		}
		names[c.Party] = c.Name
		if _, ok := totals.ByParty[c.Party]; ok {
			order = append(order, c.Party)
		}
	}
	var others []string
	for party := range totals.ByParty {
		if _, known := names[party]; !known {
			others = append(others, party)
		}
	}
	sort.Strings(others)
	order = append(order, others...)

	b := Batch{PrecinctID: p.ID, TotalVotes: totals.TotalVotes}

	for _, party := range order {
		votes := totals.ByParty[party]
		name := names[party]
		if name == "" {
			name = party
		}
		b.Results = append(b.Results, models.ResultRow{
			PrecinctID:   p.ID,
			Municipality: p.Municipality,
			Party:        party,
			Name:         name,
			Votes:        votes,
			Percentage:   tally.LedgerPercent(votes, totals.TotalVotes),
			Timestamp:    ts,
		})
	}

	for _, i := range pt.Indexes() {
		table, _ := pt.Table(i)
		for _, url := range table.Photos() {
			b.Photos = append(b.Photos, models.PhotoEntry{
				PrecinctID: p.ID,
				TableLabel: TableLabel(i),
				URL:        url,
				Timestamp:  ts,
				Actor:      actor,
			})
		}
	}

	b.Log = models.LogEntry{
		Timestamp:  ts,
		PrecinctID: p.ID,
		Action:     models.ActionSaved,
		Actor:      actor,
		Summary:    fmt.Sprintf("%d resultados, %d fotos", len(b.Results), len(b.Photos)),
	}

	id, err := batchID(b)
	if err != nil {
		return Batch{}, err
	}
	b.ID = id
	return b, nil
}

// batchID is a name-based UUID over the batch rows, so equal batches share
// an id.
func batchID(b Batch) (string, error) {
	payload, err := json.Marshal(struct {
		Results []models.ResultRow  `json:"results"`
		Photos  []models.PhotoEntry `json:"photos"`
		Log     models.LogEntry     `json:"log"`
	}{b.Results, b.Photos, b.Log})
	if err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}
	return uuid.NewSHA1(batchNamespace, payload).String(), nil
}
