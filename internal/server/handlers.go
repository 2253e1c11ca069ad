package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/internal/matcher"
	"github.com/riggerhire/rigmatch/pkg/models"
)

// ScoreRequest represents the request body for /v1/score
type ScoreRequest struct {
	Candidate *models.CandidateProfile `json:"candidate"`
	Job       *models.JobRequirement   `json:"job"`
}

// RankRequest represents the request body for /v1/rank
type RankRequest struct {
	Candidate     *models.CandidateProfile `json:"candidate"`
	Jobs          []*models.JobRequirement `json:"jobs"`
	MinScore      *float64                 `json:"min_score,omitempty"`
	MaxDistanceKm *float64                 `json:"max_distance_km,omitempty"`
}

// RankResponse represents the response for the rank endpoints
type RankResponse struct {
	CandidateID string                `json:"candidate_id"`
	Results     []*models.MatchResult `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decode(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.matcher.Score(req.Candidate, req.Job)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := decode(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	opts := s.cfg.Defaults
	if req.MinScore != nil {
		opts.MinScore = *req.MinScore
	}
	if req.MaxDistanceKm != nil {
		opts.MaxDistanceKm = *req.MaxDistanceKm
	}

	s.rank(w, r, req.Candidate, req.Jobs, opts)
}

// handleCandidateRank ranks a stored candidate against every stored job
func (s *Server) handleCandidateRank(w http.ResponseWriter, r *http.Request) {
	candidate, err := database.GetCandidate(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	opts, err := s.queryOptions(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	jobs, err := database.GetAllJobs()
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.rank(w, r, candidate, jobs, opts)
}

func (s *Server) handleMatchHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := database.GetCandidate(id); err != nil {
		s.errorResponse(w, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, &ErrBadRequest{Message: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	history, err := database.GetMatchHistory(id, limit)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, RankResponse{CandidateID: id, Results: history})
}

func (s *Server) rank(w http.ResponseWriter, r *http.Request, candidate *models.CandidateProfile, jobs []*models.JobRequirement, opts matcher.RankOptions) {
	if math.IsNaN(opts.MinScore) || opts.MinScore < 0 || opts.MinScore > 1 {
		s.errorResponse(w, &ErrBadRequest{Message: "min_score must be between 0 and 1"})
		return
	}

	results, err := s.matcher.Rank(r.Context(), candidate, jobs, opts)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := RankResponse{Results: results}
	if candidate != nil {
		resp.CandidateID = candidate.CandidateID
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) queryOptions(r *http.Request) (matcher.RankOptions, error) {
	opts := s.cfg.Defaults
	q := r.URL.Query()

	if v := q.Get("min_score"); v != "" {
		f, err := parseFinite(v)
		if err != nil {
			return opts, &ErrBadRequest{Message: "min_score must be a finite number"}
		}
		opts.MinScore = f
	}
	if v := q.Get("max_distance_km"); v != "" {
		f, err := parseFinite(v)
		if err != nil {
			return opts, &ErrBadRequest{Message: "max_distance_km must be a finite number"}
		}
		opts.MaxDistanceKm = f
	}
	return opts, nil
}

func parseFinite(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrBadRequest{Message: "invalid request body: " + err.Error()}
	}
	return nil
}
