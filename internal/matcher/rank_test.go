package matcher

import (
	"context"
	"fmt"
	"testing"

	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stubScorer returns canned scores keyed by job ID and panics on request
type stubScorer struct {
	scores map[string]float64
	panics map[string]bool
}

func (s *stubScorer) Name() string { return "stub" }

func (s *stubScorer) Score(c *models.CandidateProfile, j *models.JobRequirement) (*models.MatchResult, error) {
	if s.panics[j.JobID] {
		panic("boom")
	}
	return &models.MatchResult{JobID: j.JobID, CandidateID: c.CandidateID, Score: s.scores[j.JobID]}, nil
}

func newTestMatcher(t *testing.T, scorer Scorer) *Matcher {
	return New(scorer, zaptest.NewLogger(t), 3)
}

func jobIDs(results []*models.MatchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.JobID)
	}
	return ids
}

func TestRank_PerthScenario(t *testing.T) {
	m := newTestMatcher(t, NewRuleScorer(fixedClock))

	results, err := m.Rank(context.Background(), perthRigger(), []*models.JobRequirement{perthLift()}, DefaultRankOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.80, results[0].Score, 1e-9)

	results, err = m.Rank(context.Background(), perthRigger(), []*models.JobRequirement{perthLift()}, RankOptions{MinScore: 0.9, MaxDistanceKm: 50})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRank_SortsDescendingAndStable(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{
		"a": 0.7, "b": 0.9, "c": 0.7, "d": 0.5, "e": 0.9, "f": 0.7,
	}}
	m := newTestMatcher(t, scorer)

	var jobs []*models.JobRequirement
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		jobs = append(jobs, &models.JobRequirement{JobID: id})
	}

	results, err := m.Rank(context.Background(), perthRigger(), jobs, RankOptions{MinScore: 0.6})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "e", "a", "c", "f"}, jobIDs(results))
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.6)
	}
}

func TestRank_MinScoreIsInclusive(t *testing.T) {
	m := newTestMatcher(t, &stubScorer{scores: map[string]float64{"edge": 0.6, "below": 0.59}})

	results, err := m.Rank(context.Background(), perthRigger(),
		[]*models.JobRequirement{{JobID: "below"}, {JobID: "edge"}}, RankOptions{MinScore: 0.6})
	require.NoError(t, err)
	assert.Equal(t, []string{"edge"}, jobIDs(results))
}

func TestRank_MaxDistanceCutoff(t *testing.T) {
	m := newTestMatcher(t, NewRuleScorer(fixedClock))

	near := perthLift()
	near.JobID = "near"
	far := perthLift()
	far.JobID = "far"
	// Mandurah, about 65 km south of Perth.
	far.Location = models.Location{Latitude: -32.5269, Longitude: 115.7217}

	jobs := []*models.JobRequirement{far, near}

	results, err := m.Rank(context.Background(), perthRigger(), jobs, RankOptions{MinScore: 0, MaxDistanceKm: 50})
	require.NoError(t, err)
	assert.Equal(t, []string{"near"}, jobIDs(results))

	results, err = m.Rank(context.Background(), perthRigger(), jobs, RankOptions{MinScore: 0, MaxDistanceKm: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "far"}, jobIDs(results))
}

func TestRank_FailsClosed(t *testing.T) {
	m := newTestMatcher(t, NewRuleScorer(fixedClock))

	bad := perthLift()
	bad.JobID = "bad-lat"
	bad.Location.Latitude = 200

	jobs := []*models.JobRequirement{perthLift(), bad, nil}

	results, err := m.Rank(context.Background(), perthRigger(), jobs, DefaultRankOptions())
	assert.Nil(t, results)

	var failure *ScoringFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, []string{"bad-lat", "#2"}, failure.JobIDs())

	var invalid *InvalidInputError
	assert.ErrorAs(t, failure.Failures[0].Err, &invalid)
}

func TestRank_RecoversScorerPanic(t *testing.T) {
	m := newTestMatcher(t, &stubScorer{
		scores: map[string]float64{"ok": 0.9},
		panics: map[string]bool{"explodes": true},
	})

	results, err := m.Rank(context.Background(), perthRigger(),
		[]*models.JobRequirement{{JobID: "ok"}, {JobID: "explodes"}}, DefaultRankOptions())
	assert.Nil(t, results)

	var failure *ScoringFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, []string{"explodes"}, failure.JobIDs())
	assert.Contains(t, failure.Error(), "panicked")
}

func TestRank_InvalidCandidate(t *testing.T) {
	m := newTestMatcher(t, nil)

	candidate := perthRigger()
	candidate.CandidateID = ""

	_, err := m.Rank(context.Background(), candidate, []*models.JobRequirement{perthLift()}, DefaultRankOptions())

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "candidate.candidateid", invalid.Field)
}

func TestRank_Empty(t *testing.T) {
	m := newTestMatcher(t, nil)

	results, err := m.Rank(context.Background(), perthRigger(), nil, DefaultRankOptions())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRank_Cancelled(t *testing.T) {
	m := newTestMatcher(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Rank(ctx, perthRigger(), []*models.JobRequirement{perthLift()}, DefaultRankOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRank_Restartable(t *testing.T) {
	m := newTestMatcher(t, NewRuleScorer(fixedClock))

	var jobs []*models.JobRequirement
	for i := 0; i < 20; i++ {
		j := perthLift()
		j.JobID = fmt.Sprintf("job-%02d", i)
		if i%2 == 0 {
			j.RequiredSkills = []string{"rigging"}
		}
		jobs = append(jobs, j)
	}

	first, err := m.Rank(context.Background(), perthRigger(), jobs, DefaultRankOptions())
	require.NoError(t, err)
	second, err := m.Rank(context.Background(), perthRigger(), jobs, DefaultRankOptions())
	require.NoError(t, err)

	assert.Equal(t, jobIDs(first), jobIDs(second))
	assert.Equal(t, "job-00", first[0].JobID)
	assert.Equal(t, "job-01", first[10].JobID)
}
