package matcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riggerhire/rigmatch/internal/metrics"
	"github.com/riggerhire/rigmatch/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMinScore      = 0.6
	DefaultMaxDistanceKm = 50.0
	DefaultWorkers       = 4
)

// RankOptions controls filtering of ranked results
type RankOptions struct {
	MinScore float64
	// MaxDistanceKm drops jobs further away than this. Zero or negative disables the cutoff.
	MaxDistanceKm float64
}

// DefaultRankOptions returns the stock thresholds
func DefaultRankOptions() RankOptions {
	return RankOptions{MinScore: DefaultMinScore, MaxDistanceKm: DefaultMaxDistanceKm}
}

// Matcher scores and ranks jobs for candidates using a Scorer
type Matcher struct {
	scorer  Scorer
	logger  *zap.Logger
	workers int
}

// New creates a Matcher. A nil scorer means the rule-based scorer on the wall clock.
func New(scorer Scorer, logger *zap.Logger, workers int) *Matcher {
	if scorer == nil {
		scorer = NewRuleScorer(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Matcher{scorer: scorer, logger: logger, workers: workers}
}

// Score scores one candidate against one job
func (m *Matcher) Score(candidate *models.CandidateProfile, job *models.JobRequirement) (*models.MatchResult, error) {
	start := time.Now()
	result, err := m.scoreSafely(candidate, job)
	metrics.ScoreDuration.WithLabelValues(m.scorer.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ScoresFailed.WithLabelValues(m.scorer.Name()).Inc()
		return nil, err
	}

	metrics.ScoresComputed.WithLabelValues(m.scorer.Name()).Inc()
	metrics.MatchScore.Observe(result.Score)

	m.logger.Debug("match scored",
		zap.String("candidate_id", result.CandidateID),
		zap.String("job_id", result.JobID),
		zap.Float64("score", result.Score),
		zap.Float64("distance_km", result.DistanceKm),
		zap.Strings("reasoning", result.Reasoning),
	)
	return result, nil
}

// scoreSafely turns a panic inside the scorer into an error so one bad job cannot take down a ranking
func (m *Matcher) scoreSafely(candidate *models.CandidateProfile, job *models.JobRequirement) (result *models.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("scorer %s panicked: %v", m.scorer.Name(), r)
		}
	}()
	return m.scorer.Score(candidate, job)
}

// Rank scores every job for the candidate, drops results below opts.MinScore or beyond
// opts.MaxDistanceKm, and sorts the rest by descending score. Equal scores keep input order.
//
// If any job fails to score, Rank returns a *ScoringFailure naming every failed job and no results.
func (m *Matcher) Rank(ctx context.Context, candidate *models.CandidateProfile, jobs []*models.JobRequirement, opts RankOptions) ([]*models.MatchResult, error) {
	if err := ValidateCandidate(candidate); err != nil {
		return nil, err
	}

	results := make([]*models.MatchResult, len(jobs))
	errs := make([]error, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = m.Score(candidate, job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failure ScoringFailure
	for i, err := range errs {
		if err == nil {
			continue
		}
		failure.Failures = append(failure.Failures, JobFailure{JobID: jobID(jobs[i], i), Err: err})
	}
	if len(failure.Failures) > 0 {
		metrics.RanksFailed.Inc()
		m.logger.Error("ranking failed",
			zap.String("candidate_id", candidate.CandidateID),
			zap.Strings("failed_jobs", failure.JobIDs()),
		)
		return nil, &failure
	}

	ranked := make([]*models.MatchResult, 0, len(results))
	tooFar := 0
	for _, r := range results {
		if opts.MaxDistanceKm > 0 && r.DistanceKm > opts.MaxDistanceKm {
			tooFar++
			continue
		}
		if r.Score < opts.MinScore {
			continue
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	m.logger.Info("jobs ranked",
		zap.String("candidate_id", candidate.CandidateID),
		zap.Int("initial", len(jobs)),
		zap.Int("too_far", tooFar),
		zap.Int("dropped", len(jobs)-len(ranked)),
		zap.Int("left", len(ranked)),
	)
	return ranked, nil
}

func jobID(job *models.JobRequirement, index int) string {
	if job == nil || job.JobID == "" {
		return fmt.Sprintf("#%d", index)
	}
	return job.JobID
}
