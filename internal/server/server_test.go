package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/internal/matcher"
	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) http.Handler {
	m := matcher.New(matcher.NewRuleScorer(func() time.Time { return fixedNow }), zaptest.NewLogger(t), 2)
	s := New(Config{Addr: ":0", Defaults: matcher.DefaultRankOptions()}, m, zaptest.NewLogger(t))
	return s.Handler()
}

func setupDB(t *testing.T) {
	oldDB := database.DB
	require.NoError(t, database.Initialize(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() {
		database.Close()
		database.DB = oldDB
	})
	_, err := database.Seed()
	require.NoError(t, err)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleScore(t *testing.T) {
	h := newTestServer(t)

	req := ScoreRequest{
		Candidate: database.SampleCandidates()[0],
		Job:       database.SampleJobs()[0],
	}
	rec := doJSON(t, h, http.MethodPost, "/v1/score", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 0.80, result.Score, 1e-9)
	assert.Equal(t, 0.5, result.Breakdown.Skill)
	assert.Equal(t, matcher.RuleConfidence, result.Confidence)
}

func TestHandleScore_InvalidInput(t *testing.T) {
	h := newTestServer(t)

	candidate := database.SampleCandidates()[0]
	candidate.Location.Longitude = 500

	rec := doJSON(t, h, http.MethodPost, "/v1/score", ScoreRequest{Candidate: candidate, Job: database.SampleJobs()[0]})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "candidate.location.longitude")
}

func TestHandleScore_MalformedBody(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", bytes.NewBufferString(`{"candidate": [`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRank(t *testing.T) {
	h := newTestServer(t)

	minScore := 0.0
	noCutoff := 0.0
	rec := doJSON(t, h, http.MethodPost, "/v1/rank", RankRequest{
		Candidate:     database.SampleCandidates()[0],
		Jobs:          database.SampleJobs(),
		MinScore:      &minScore,
		MaxDistanceKm: &noCutoff,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "cand-perth-001", resp.CandidateID)
	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Score, resp.Results[i].Score)
	}
	assert.Equal(t, "job-port-hedland-shutdown", resp.Results[2].JobID)
}

func TestHandleRank_DefaultsApplyDistanceCutoff(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/rank", RankRequest{
		Candidate: database.SampleCandidates()[0],
		Jobs:      database.SampleJobs(),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, r := range resp.Results {
		assert.NotEqual(t, "job-port-hedland-shutdown", r.JobID)
		assert.LessOrEqual(t, r.DistanceKm, 50.0)
	}
}

func TestHandleRank_ScoringFailure(t *testing.T) {
	h := newTestServer(t)

	bad := database.SampleJobs()[1]
	bad.Location.Latitude = -120

	rec := doJSON(t, h, http.MethodPost, "/v1/rank", RankRequest{
		Candidate: database.SampleCandidates()[0],
		Jobs:      []*models.JobRequirement{database.SampleJobs()[0], bad},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"job-fremantle-port"}, resp.FailedJobs)
}

func TestHandleRank_BadMinScore(t *testing.T) {
	h := newTestServer(t)

	tooHigh := 1.5
	rec := doJSON(t, h, http.MethodPost, "/v1/rank", RankRequest{
		Candidate: database.SampleCandidates()[0],
		MinScore:  &tooHigh,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCandidateRank(t *testing.T) {
	setupDB(t)
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/candidates/cand-perth-001/rank?min_score=0.9", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "job-fremantle-port", resp.Results[0].JobID)

	rec = doJSON(t, h, http.MethodPost, "/v1/candidates/nobody/rank", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/candidates/cand-perth-001/rank?max_distance_km=far", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCandidateRank_RejectsNonFiniteQuery(t *testing.T) {
	setupDB(t)
	h := newTestServer(t)

	for _, q := range []string{"max_distance_km=NaN", "max_distance_km=Inf", "max_distance_km=-Inf", "min_score=NaN"} {
		t.Run(q, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/v1/candidates/cand-perth-001/rank?"+q, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleMatchHistory(t *testing.T) {
	setupDB(t)
	h := newTestServer(t)

	require.NoError(t, database.SaveMatchResults([]*models.MatchResult{
		{CandidateID: "cand-perth-001", JobID: "job-perth-cbd-lift", Score: 0.8, Confidence: 0.85, ScoredAt: fixedNow},
	}))

	rec := doJSON(t, h, http.MethodGet, "/v1/candidates/cand-perth-001/matches?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "job-perth-cbd-lift", resp.Results[0].JobID)

	rec = doJSON(t, h, http.MethodGet, "/v1/candidates/cand-perth-001/matches?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	doJSON(t, h, http.MethodPost, "/v1/score", ScoreRequest{
		Candidate: database.SampleCandidates()[0],
		Job:       database.SampleJobs()[0],
	})

	rec = doJSON(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rigmatch_scores_computed_total")
	assert.Contains(t, rec.Body.String(), "rigmatch_http_requests_total")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&matcher.InvalidInputError{Field: "x", Reason: "y"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrBadRequest{Message: "m"}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(database.ErrNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(&matcher.ScoringFailure{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
