// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/quickly-tally/models"

// Status is the completion state of a precinct.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
)

// ParseStatus maps a filter value to a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusPartial, StatusComplete:
		return Status(s), true
	}
	return "", false
}

// Color is the marker color used when rendering the status on a map.
func (s Status) Color() string {
	switch s {
	case StatusComplete:
		return "#22c55e"
	case StatusPartial:
		return "#f59e0b"
	default:
		return "#DDD6FE"
	}
}

// Classify derives a precinct's status from its tables. A nil tally is
// pending. Complete requires every declared table to carry both votes and
// at least one photo; numbers alone are not verifiable.
func Classify(p models.Precinct, pt *PrecinctTally) Status {
	if pt == nil {
		return StatusPending
	}

	anyVotes := false
	for _, t := range pt.tables {
		if t.HasVotes() {
			anyVotes = true
			break
		}
	}
	if !anyVotes {
		return StatusPending
	}

	for i := 1; i <= p.Tables(); i++ {
		t, ok := pt.tables[i]
		if !ok || !t.HasVotes() || !t.HasPhotos() {
			return StatusPartial
		}
	}
	return StatusComplete
}

// Progress is the entry state of a single table.
type Progress string

const (
	ProgressEmpty   Progress = "empty"
	ProgressStarted Progress = "started"
	ProgressDone    Progress = "done"
)

// TableProgress reports whether a table has nothing, one of votes/photos,
// or both. A nil table is empty.
func TableProgress(t *Table) Progress {
	if t == nil {
		return ProgressEmpty
	}
	switch {
	case t.HasVotes() && t.HasPhotos():
		return ProgressDone
	case t.HasVotes() || t.HasPhotos():
		return ProgressStarted
	}
	return ProgressEmpty
}
