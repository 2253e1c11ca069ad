package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigmatch_scores_computed_total",
			Help: "Total number of candidate/job pairs scored",
		},
		[]string{"scorer"},
	)

	ScoresFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigmatch_scores_failed_total",
			Help: "Total number of candidate/job pairs that could not be scored",
		},
		[]string{"scorer"},
	)

	ScoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rigmatch_score_duration_seconds",
			Help:    "Duration of a single score computation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
		[]string{"scorer"},
	)

	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rigmatch_match_score",
			Help:    "Distribution of computed match scores",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	RanksFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rigmatch_ranks_failed_total",
			Help: "Total number of rankings that failed closed",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigmatch_http_requests_total",
			Help: "Total number of API requests by route and status code",
		},
		[]string{"route", "code"},
	)
)
