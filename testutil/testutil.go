// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/refdata"
)

// ErrInjected is returned by FlakyLedger for a failing sink.
var ErrInjected = errors.New("injected ledger failure")

// SetupTestDB opens a private in-memory SQLite database with the ledger schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		DatabaseType:    db.TypeSQLite,
		PrecinctsFile:   "testdata/recintos.json",
		OperatorKeySalt: "test-operator-salt",
	}
}

// TestPrecincts returns a small reference list:
//
//	P1  one table, La Paz
//	P2  two tables, La Paz
//	P3  three tables, El Alto (La Paz department)
//	S1  one table, Sucre (Chuquisaca)
func TestPrecincts(t *testing.T) *refdata.Index {
	t.Helper()

	idx, err := refdata.NewIndex([]models.Precinct{
		{ID: "P1", Name: "Escuela Uno", Municipality: "La Paz", Department: "La Paz", TableCount: 1, RegisteredVoters: 200},
		{ID: "P2", Name: "Colegio Dos", Municipality: "La Paz", Department: "La Paz", TableCount: 2, RegisteredVoters: 450},
		{ID: "P3", Name: "Unidad Tres", Municipality: "El Alto", Department: "La Paz", TableCount: 3, RegisteredVoters: 700},
		{ID: "S1", Name: "Mercado Central", Municipality: "Sucre", Department: "Chuquisaca", TableCount: 1, RegisteredVoters: 150},
	})
	if err != nil {
		t.Fatalf("Failed to build precinct index: %v", err)
	}
	return idx
}

// SeedCandidates inserts candidate directory rows.
func SeedCandidates(t *testing.T, conn *sql.DB, rows []models.CandidateRow) {
	t.Helper()

	for _, r := range rows {
		_, err := conn.Exec(`
			INSERT INTO candidate (municipality, party, name, office, color, rank)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.Municipality, r.Party, r.Name, r.Office, r.Color, r.Rank)
		if err != nil {
			t.Fatalf("Failed to seed candidate: %v", err)
		}
	}
}

// CountRows returns the number of rows in a ledger table.
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

type ledgerBackend interface {
	ReadVotes(ctx context.Context) ([]models.VoteRow, error)
	ReadPhotos(ctx context.Context) ([]models.PhotoRow, error)
	ReadCandidates(ctx context.Context) ([]models.CandidateRow, error)
	AppendResults(ctx context.Context, batchID string, rows []models.ResultRow) error
	AppendPhotos(ctx context.Context, batchID string, rows []models.PhotoEntry) error
	AppendLog(ctx context.Context, batchID string, entry models.LogEntry) error
}

// FlakyLedger wraps a ledger and fails the operations named in Fail
// ("results", "photos", "log", "read-votes", "read-photos", "read-candidates").
type FlakyLedger struct {
	Inner ledgerBackend

	mu    sync.Mutex
	Fail  map[string]bool
	Calls map[string]int
}

func NewFlakyLedger(inner ledgerBackend, fail ...string) *FlakyLedger {
	f := &FlakyLedger{Inner: inner, Fail: make(map[string]bool), Calls: make(map[string]int)}
	for _, op := range fail {
		f.Fail[op] = true
	}
	return f
}

// SetFail replaces the set of failing operations.
func (f *FlakyLedger) SetFail(ops ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fail = make(map[string]bool)
	for _, op := range ops {
		f.Fail[op] = true
	}
}

// CallCount returns how often op was invoked.
func (f *FlakyLedger) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[op]
}

func (f *FlakyLedger) check(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[op]++
	if f.Fail[op] {
		return ErrInjected
	}
	return nil
}

func (f *FlakyLedger) ReadVotes(ctx context.Context) ([]models.VoteRow, error) {
	if err := f.check("read-votes"); err != nil {
		return nil, err
	}
	return f.Inner.ReadVotes(ctx)
}

func (f *FlakyLedger) ReadPhotos(ctx context.Context) ([]models.PhotoRow, error) {
	if err := f.check("read-photos"); err != nil {
		return nil, err
	}
	return f.Inner.ReadPhotos(ctx)
}

func (f *FlakyLedger) ReadCandidates(ctx context.Context) ([]models.CandidateRow, error) {
	if err := f.check("read-candidates"); err != nil {
		return nil, err
	}
	return f.Inner.ReadCandidates(ctx)
}

func (f *FlakyLedger) AppendResults(ctx context.Context, batchID string, rows []models.ResultRow) error {
	if err := f.check("results"); err != nil {
		return err
	}
	return f.Inner.AppendResults(ctx, batchID, rows)
}

func (f *FlakyLedger) AppendPhotos(ctx context.Context, batchID string, rows []models.PhotoEntry) error {
	if err := f.check("photos"); err != nil {
		return err
	}
	return f.Inner.AppendPhotos(ctx, batchID, rows)
}

func (f *FlakyLedger) AppendLog(ctx context.Context, batchID string, entry models.LogEntry) error {
	if err := f.check("log"); err != nil {
		return err
	}
	return f.Inner.AppendLog(ctx, batchID, entry)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
