// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Candidate defaults applied when a directory row leaves a field empty.
const (
	DefaultRank   = 999
	DefaultOffice = "Alcalde"
	DefaultColor  = "#999999"
)

// Ledger constants
const (
	// ActorPlaceholder stands in for the operator identity when none is known.
	ActorPlaceholder = "Sistema Web"
	// ActionSaved is the log action tag written on every save.
	ActionSaved = "GUARDADO"
	// TimestampLayout is the layout of every timestamp written to the ledger.
	TimestampLayout = "02/01/2006 15:04:05"
)

// Domain types

// Precinct is one polling location. The yaml keys match the compact
// reference dump the field teams already ship.
type Precinct struct {
	ID               string  `json:"id" yaml:"c" validate:"required"`
	Name             string  `json:"name" yaml:"r"`
	Municipality     string  `json:"municipality" yaml:"m" validate:"required"`
	Department       string  `json:"department" yaml:"d"`
	TableCount       int     `json:"table_count" yaml:"ms" validate:"gte=0"`
	RegisteredVoters int     `json:"registered_voters" yaml:"h" validate:"gte=0"`
	Lat              float64 `json:"lat" yaml:"la" validate:"gte=-90,lte=90"`
	Lon              float64 `json:"lon" yaml:"lo" validate:"gte=-180,lte=180"`
}

// Tables returns the declared table count, treating an unknown count as 1.
func (p Precinct) Tables() int {
	if p.TableCount < 1 {
		return 1
	}
	return p.TableCount
}

// Candidate is a party or alliance on a municipality's ballot.
type Candidate struct {
	Party  string `json:"party" yaml:"party"`
	Name   string `json:"name" yaml:"name"`
	Office string `json:"office" yaml:"office"`
	Color  string `json:"color" yaml:"color"`
	Rank   *int   `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// SortRank returns the display rank, or DefaultRank when none was given.
func (c Candidate) SortRank() int {
	if c.Rank == nil {
		return DefaultRank
	}
	return *c.Rank
}

// Feed rows. Every field is kept as text because the ledger is a loosely
// typed spreadsheet-style store; parsing happens in the consuming package.

// CandidateRow is one row of the candidate feed.
type CandidateRow struct {
	Municipality string `yaml:"municipio"`
	Party        string `yaml:"partido"`
	Name         string `yaml:"nombre"`
	Office       string `yaml:"cargo"`
	Color        string `yaml:"color"`
	Rank         string `yaml:"orden"`
}

// VoteRow is one persisted result row as read back from the ledger.
type VoteRow struct {
	PrecinctID string
	Party      string
	Votes      string
}

// PhotoRow is one persisted photo row as read back from the ledger.
type PhotoRow struct {
	PrecinctID string
	TableLabel string
	URL        string
}

// Ledger write rows

type ResultRow struct {
	PrecinctID   string `json:"precinct_id"`
	Municipality string `json:"municipality"`
	Party        string `json:"party"`
	Name         string `json:"name"`
	Votes        int    `json:"votes"`
	Percentage   string `json:"percentage"`
	Timestamp    string `json:"timestamp"`
}

type PhotoEntry struct {
	PrecinctID string `json:"precinct_id"`
	TableLabel string `json:"table_label"`
	URL        string `json:"url"`
	Timestamp  string `json:"timestamp"`
	Actor      string `json:"actor"`
}

type LogEntry struct {
	Timestamp  string `json:"timestamp"`
	PrecinctID string `json:"precinct_id"`
	Action     string `json:"action"`
	Actor      string `json:"actor"`
	Summary    string `json:"summary"`
}

// Request types

// RecordVoteRequest carries the raw field value; it may be a JSON string or
// number and is parsed leniently.
type RecordVoteRequest struct {
	Value RawValue `json:"value"`
}

type AddPhotoRequest struct {
	URL string `json:"url"`
}

// Response types

type PrecinctSummary struct {
	Precinct Precinct `json:"precinct"`
	Status   string   `json:"status"`
	Color    string   `json:"color"`
}

type PrecinctListResponse struct {
	Precincts []PrecinctSummary `json:"precincts"`
}

type StatsResponse struct {
	Complete int `json:"complete"`
	Partial  int `json:"partial"`
	Pending  int `json:"pending"`
}

type TableView struct {
	Index    int            `json:"index"`
	Progress string         `json:"progress"`
	Votes    map[string]int `json:"votes"`
	Photos   []string       `json:"photos"`
}

type TotalLine struct {
	Party      string  `json:"party"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
	Label      string  `json:"label"`
}

type PrecinctDetail struct {
	Precinct   Precinct    `json:"precinct"`
	Status     string      `json:"status"`
	Flushed    bool        `json:"flushed"`
	Candidates []Candidate `json:"candidates"`
	Tables     []TableView `json:"tables"`
	Totals     []TotalLine `json:"totals"`
	TotalVotes int         `json:"total_votes"`
}

type RecordVoteResponse struct {
	Party string `json:"party"`
	Votes int    `json:"votes"`
}

type SaveResponse struct {
	BatchID    string `json:"batch_id"`
	Results    int    `json:"results"`
	Photos     int    `json:"photos"`
	TotalVotes int    `json:"total_votes"`
	Message    string `json:"message"`
}

type Diagnostic struct {
	Stream     string `json:"stream"`
	Row        int    `json:"row"`
	PrecinctID string `json:"precinct_id,omitempty"`
	Reason     string `json:"reason"`
	Dropped    bool   `json:"dropped"`
}

type ReloadResponse struct {
	Precincts   int          `json:"precincts"`
	Dropped     int          `json:"dropped"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type CandidateReloadResponse struct {
	Municipalities []string `json:"municipalities"`
	Warnings       []string `json:"warnings"`
}

type CandidatesResponse struct {
	Municipality string      `json:"municipality"`
	Configured   bool        `json:"configured"`
	Candidates   []Candidate `json:"candidates"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Failed  []string `json:"failed,omitempty"`
}
