// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/ledger"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/session"
	"github.com/danielhkuo/quickly-tally/testutil"
)

type testEnv struct {
	cfg        cliparse.Config
	sess       *session.Session
	flaky      *testutil.FlakyLedger
	precincts  *PrecinctHandler
	ledger     *LedgerHandler
	candidates *CandidateHandler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	testutil.SeedCandidates(t, conn, []models.CandidateRow{
		{Municipality: "La Paz", Party: "A", Name: "Alianza Andina", Rank: "1"},
		{Municipality: "La Paz", Party: "B", Name: "Bloque Popular", Rank: "2"},
	})

	cfg := testutil.GetTestConfig()
	flaky := testutil.NewFlakyLedger(ledger.NewSQL(conn))
	now := func() time.Time { return time.Date(2026, time.March, 8, 21, 0, 0, 0, time.UTC) }
	sess := session.New(testutil.TestPrecincts(t), nil, flaky, session.Options{Now: now})
	if _, err := sess.ReloadCandidates(context.Background()); err != nil {
		t.Fatalf("Failed to load candidates: %v", err)
	}

	return &testEnv{
		cfg:        cfg,
		sess:       sess,
		flaky:      flaky,
		precincts:  NewPrecinctHandler(sess, cfg),
		ledger:     NewLedgerHandler(sess),
		candidates: NewCandidateHandler(sess),
	}
}

// request builds a request with path values set as the mux would.
func request(method, path string, body interface{}, values map[string]string, headers map[string]string) *http.Request {
	req := testutil.MakeRequest(method, path, body, headers)
	for k, v := range values {
		req.SetPathValue(k, v)
	}
	return req
}

func (e *testEnv) vote(t *testing.T, id, table, party string, value interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := request("PUT", "/precincts/"+id+"/tables/"+table+"/votes/"+url.PathEscape(party),
		map[string]interface{}{"value": value},
		map[string]string{"id": id, "table": table, "party": party}, nil)
	w := httptest.NewRecorder()
	e.precincts.RecordVote(w, req)
	return w
}

func (e *testEnv) photo(t *testing.T, id, table, photoURL string) *httptest.ResponseRecorder {
	t.Helper()
	req := request("POST", "/precincts/"+id+"/tables/"+table+"/photos",
		models.AddPhotoRequest{URL: photoURL},
		map[string]string{"id": id, "table": table}, nil)
	w := httptest.NewRecorder()
	e.precincts.AddPhoto(w, req)
	return w
}

func (e *testEnv) save(t *testing.T, id string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := request("POST", "/precincts/"+id+"/save", nil, map[string]string{"id": id}, headers)
	w := httptest.NewRecorder()
	e.precincts.SavePrecinct(w, req)
	return w
}

func TestRecordVote(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name           string
		id             string
		table          string
		party          string
		value          interface{}
		expectedStatus int
		expectedVotes  int
	}{
		{"string value", "P1", "1", "A", "12", http.StatusOK, 12},
		{"number value", "P1", "1", "B", 7, http.StatusOK, 7},
		{"negative coerced", "P1", "1", "A", "-3", http.StatusOK, 0},
		{"garbage coerced", "P1", "1", "A", "abc", http.StatusOK, 0},
		{"null is zero", "P1", "1", "A", nil, http.StatusOK, 0},
		{"table out of range", "P1", "2", "A", "1", http.StatusBadRequest, 0},
		{"non-numeric table", "P1", "x", "A", "1", http.StatusBadRequest, 0},
		{"blank party", "P1", "1", " ", "1", http.StatusBadRequest, 0},
		{"unknown precinct", "NOPE", "1", "A", "1", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.vote(t, tt.id, tt.table, tt.party, tt.value)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.RecordVoteResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Votes != tt.expectedVotes {
					t.Errorf("Expected %d votes, got %d", tt.expectedVotes, resp.Votes)
				}
			}
		})
	}
}

func TestRecordVoteInvalidJSON(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest("PUT", "/precincts/P1/tables/1/votes/A", nil)
	req.SetPathValue("id", "P1")
	req.SetPathValue("table", "1")
	req.SetPathValue("party", "A")
	w := httptest.NewRecorder()
	env.precincts.RecordVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestPhotos(t *testing.T) {
	env := setupTestEnv(t)

	w := env.photo(t, "P2", "2", " https://img/p2.jpg ")
	testutil.AssertStatus(t, w, http.StatusCreated)

	var detail models.PrecinctDetail
	testutil.AssertJSON(t, w, &detail)
	if got := detail.Tables[1].Photos; len(got) != 1 || got[0] != "https://img/p2.jpg" {
		t.Errorf("Expected trimmed photo on table 2, got %v", got)
	}
	if detail.Tables[1].Progress != "started" {
		t.Errorf("Expected table progress 'started', got %q", detail.Tables[1].Progress)
	}

	testutil.AssertStatus(t, env.photo(t, "P2", "1", "   "), http.StatusBadRequest)
	testutil.AssertStatus(t, env.photo(t, "P2", "3", "u"), http.StatusBadRequest)

	remove := func(pos string) *httptest.ResponseRecorder {
		req := request("DELETE", "/precincts/P2/tables/2/photos/"+pos, nil,
			map[string]string{"id": "P2", "table": "2", "pos": pos}, nil)
		w := httptest.NewRecorder()
		env.precincts.RemovePhoto(w, req)
		return w
	}

	// Out of range positions are ignored.
	w = remove("5")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &detail)
	if len(detail.Tables[1].Photos) != 1 {
		t.Errorf("Expected photo to survive out-of-range removal, got %v", detail.Tables[1].Photos)
	}

	w = remove("0")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &detail)
	if len(detail.Tables[1].Photos) != 0 {
		t.Errorf("Expected no photos, got %v", detail.Tables[1].Photos)
	}

	testutil.AssertStatus(t, remove("x"), http.StatusBadRequest)
}

func TestGetPrecinct(t *testing.T) {
	env := setupTestEnv(t)
	env.vote(t, "P1", "1", "A", "30")
	env.vote(t, "P1", "1", "B", "10")

	req := request("GET", "/precincts/P1", nil, map[string]string{"id": "P1"}, nil)
	w := httptest.NewRecorder()
	env.precincts.GetPrecinct(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.PrecinctDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.Status != "partial" {
		t.Errorf("Expected status 'partial', got %q", detail.Status)
	}
	if detail.TotalVotes != 40 || len(detail.Totals) != 2 {
		t.Fatalf("Unexpected totals: %+v", detail.Totals)
	}
	if detail.Totals[0].Percentage != 75 {
		t.Errorf("Expected 75%%, got %v", detail.Totals[0].Percentage)
	}
	if len(detail.Candidates) != 2 || detail.Candidates[0].Party != "A" {
		t.Errorf("Expected La Paz candidates, got %+v", detail.Candidates)
	}

	req = request("GET", "/precincts/NOPE", nil, map[string]string{"id": "NOPE"}, nil)
	w = httptest.NewRecorder()
	env.precincts.GetPrecinct(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSavePrecinct(t *testing.T) {
	env := setupTestEnv(t)

	// Nothing entered yet
	testutil.AssertStatus(t, env.save(t, "P1", nil), http.StatusUnprocessableEntity)
	testutil.AssertStatus(t, env.save(t, "NOPE", nil), http.StatusNotFound)

	env.vote(t, "P1", "1", "A", "17")
	env.vote(t, "P1", "1", "B", "8")
	env.photo(t, "P1", "1", "https://img/acta.jpg")

	bad := map[string]string{
		"X-Operator-Email": "ana@example.org",
		"X-Operator-Key":   "wrong",
	}
	testutil.AssertStatus(t, env.save(t, "P1", bad), http.StatusUnauthorized)

	good := map[string]string{
		"X-Operator-Email": "ana@example.org",
		"X-Operator-Key":   auth.GenerateOperatorKey("ana@example.org", env.cfg.OperatorKeySalt),
	}
	w := env.save(t, "P1", good)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SaveResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Results != 2 || resp.Photos != 1 || resp.TotalVotes != 25 {
		t.Errorf("Unexpected save response: %+v", resp)
	}
	if resp.BatchID == "" {
		t.Error("Expected a batch id")
	}
}

func TestSavePrecinctLedgerFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.vote(t, "P1", "1", "A", "5")

	env.flaky.SetFail("results", "log")
	w := env.save(t, "P1", nil)
	testutil.AssertStatus(t, w, http.StatusBadGateway)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if len(errResp.Failed) != 2 || errResp.Failed[0] != "results" || errResp.Failed[1] != "log" {
		t.Errorf("Expected failed sinks [results log], got %v", errResp.Failed)
	}

	env.flaky.SetFail()
	testutil.AssertStatus(t, env.save(t, "P1", nil), http.StatusOK)
}

func TestListAndStats(t *testing.T) {
	env := setupTestEnv(t)
	env.vote(t, "S1", "1", "IH", "3")
	env.photo(t, "S1", "1", "u")

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedIDs    []string
	}{
		{"all", "", http.StatusOK, []string{"P1", "P2", "P3", "S1"}},
		{"by department", "?department=La+Paz", http.StatusOK, []string{"P1", "P2", "P3"}},
		{"by status", "?status=complete", http.StatusOK, []string{"S1"}},
		{"by text", "?q=colegio", http.StatusOK, []string{"P2"}},
		{"bad status", "?status=done", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/precincts"+tt.query, nil)
			w := httptest.NewRecorder()
			env.precincts.ListPrecincts(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.PrecinctListResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Precincts) != len(tt.expectedIDs) {
				t.Fatalf("Expected %d precincts, got %d", len(tt.expectedIDs), len(resp.Precincts))
			}
			for i, id := range tt.expectedIDs {
				if resp.Precincts[i].Precinct.ID != id {
					t.Errorf("Expected precinct %s at %d, got %s", id, i, resp.Precincts[i].Precinct.ID)
				}
			}
		})
	}

	w := httptest.NewRecorder()
	env.precincts.GetStats(w, httptest.NewRequest("GET", "/precincts/stats", nil))
	var stats models.StatsResponse
	testutil.AssertJSON(t, w, &stats)
	if stats != (models.StatsResponse{Complete: 1, Partial: 0, Pending: 3}) {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	w = httptest.NewRecorder()
	env.precincts.GetDepartments(w, httptest.NewRequest("GET", "/departments", nil))
	var deps []string
	testutil.AssertJSON(t, w, &deps)
	if len(deps) != 2 || deps[0] != "Chuquisaca" {
		t.Errorf("Unexpected departments: %v", deps)
	}
}

func TestLedgerReload(t *testing.T) {
	env := setupTestEnv(t)
	env.vote(t, "P2", "2", "A", "4")
	env.photo(t, "P2", "2", "u2")
	testutil.AssertStatus(t, env.save(t, "P2", nil), http.StatusOK)

	w := httptest.NewRecorder()
	env.ledger.Reload(w, httptest.NewRequest("POST", "/ledger/reload", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ReloadResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Precincts != 1 || resp.Dropped != 0 {
		t.Errorf("Unexpected reload response: %+v", resp)
	}

	// Votes come back on table 1, photos keep their table.
	detail, err := env.sess.Detail("P2")
	if err != nil {
		t.Fatal(err)
	}
	if detail.Tables[0].Votes["A"] != 4 || len(detail.Tables[1].Photos) != 1 {
		t.Errorf("Unexpected reconciled tables: %+v", detail.Tables)
	}

	env.flaky.SetFail("read-votes")
	w = httptest.NewRecorder()
	env.ledger.Reload(w, httptest.NewRequest("POST", "/ledger/reload", nil))
	testutil.AssertStatus(t, w, http.StatusBadGateway)
	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Message != "Ledger unavailable" {
		t.Errorf("Expected ledger message, got %q", errResp.Message)
	}
}

func TestCandidates(t *testing.T) {
	env := setupTestEnv(t)

	get := func(m string) models.CandidatesResponse {
		req := request("GET", "/candidates/x", nil, map[string]string{"municipality": m}, nil)
		w := httptest.NewRecorder()
		env.candidates.GetCandidates(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.CandidatesResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	if resp := get("La Paz"); !resp.Configured || len(resp.Candidates) != 2 {
		t.Errorf("Expected configured La Paz ballot, got %+v", resp)
	}
	if resp := get("Potosí"); resp.Configured || len(resp.Candidates) != 3 || resp.Candidates[0].Party != "IH" {
		t.Errorf("Expected fallback ballot, got %+v", resp)
	}

	w := httptest.NewRecorder()
	env.candidates.Reload(w, httptest.NewRequest("POST", "/candidates/reload", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var reload models.CandidateReloadResponse
	testutil.AssertJSON(t, w, &reload)
	if len(reload.Municipalities) != 1 || reload.Municipalities[0] != "La Paz" {
		t.Errorf("Unexpected municipalities: %v", reload.Municipalities)
	}

	env.flaky.SetFail("read-candidates")
	w = httptest.NewRecorder()
	env.candidates.Reload(w, httptest.NewRequest("POST", "/candidates/reload", nil))
	testutil.AssertStatus(t, w, http.StatusBadGateway)
	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Message != "Candidate source unavailable" {
		t.Errorf("Expected candidate source message, got %q", errResp.Message)
	}
	if resp := get("La Paz"); !resp.Configured {
		t.Error("Expected directory to survive a failed reload")
	}
}
