package matcher

import (
	"math"
	"strings"
	"time"

	"github.com/riggerhire/rigmatch/pkg/models"
)

// Factor weights, summing to 1.0
const (
	skillWeight         = 0.40
	experienceWeight    = 0.25
	locationWeight      = 0.20
	certificationWeight = 0.15
)

// RuleConfidence is reported for every score produced by the rule-based scorer
const RuleConfidence = 0.85

// Reasoning tags attached when a sub-score clears its threshold
const (
	ReasonSkills         = "Strong skill match"
	ReasonExperience     = "Meets experience requirements"
	ReasonLocation       = "Close to job site"
	ReasonCertifications = "Holds required certifications"
)

// levelYears maps an experience level to the years it stands for.
// Unknown levels are worth 0 years.
var levelYears = map[models.ExperienceLevel]float64{
	models.LevelEntry:        0,
	models.LevelJunior:       2,
	models.LevelIntermediate: 5,
	models.LevelSenior:       8,
	models.LevelExpert:       12,
}

// Scorer scores one candidate against one job.
// RuleScorer is the only implementation today; a learned model can be dropped in behind it.
type Scorer interface {
	Name() string
	Score(candidate *models.CandidateProfile, job *models.JobRequirement) (*models.MatchResult, error)
}

// RuleScorer is the deterministic weighted-sum scorer. The zero value uses the wall clock.
type RuleScorer struct {
	// Now is read once per Score call; it only affects certification expiry and the result timestamp.
	Now func() time.Time
}

// NewRuleScorer returns a rule-based scorer using the given clock, or time.Now when nil
func NewRuleScorer(now func() time.Time) *RuleScorer {
	return &RuleScorer{Now: now}
}

func (s *RuleScorer) Name() string { return "rule" }

// Score calculates how well a candidate matches a job.
// Returns a result whose score is between 0.0 and 1.0
func (s *RuleScorer) Score(candidate *models.CandidateProfile, job *models.JobRequirement) (*models.MatchResult, error) {
	if err := ValidateCandidate(candidate); err != nil {
		return nil, err
	}
	if err := ValidateJob(job); err != nil {
		return nil, err
	}

	now := time.Now()
	if s != nil && s.Now != nil {
		now = s.Now()
	}

	distance := Haversine(candidate.Location, job.Location)

	breakdown := models.Breakdown{
		Skill:         matchSkills(candidate.Skills, job.RequiredSkills),
		Experience:    matchExperience(candidate.Experience, job.ExperienceLevel),
		Location:      matchDistance(distance),
		Certification: matchCertifications(candidate.Certifications, job.RequiredCertifications, now),
	}

	score := breakdown.Skill*skillWeight +
		breakdown.Experience*experienceWeight +
		breakdown.Location*locationWeight +
		breakdown.Certification*certificationWeight

	return &models.MatchResult{
		JobID:       job.JobID,
		CandidateID: candidate.CandidateID,
		Score:       math.Min(score, 1.0),
		Confidence:  RuleConfidence,
		Reasoning:   reasoning(breakdown),
		Breakdown:   breakdown,
		DistanceKm:  distance,
		ScoredAt:    now,
	}, nil
}

func reasoning(b models.Breakdown) []string {
	reasons := []string{}
	if b.Skill > 0.7 {
		reasons = append(reasons, ReasonSkills)
	}
	if b.Experience > 0.8 {
		reasons = append(reasons, ReasonExperience)
	}
	if b.Location > 0.8 {
		reasons = append(reasons, ReasonLocation)
	}
	if b.Certification > 0.9 {
		reasons = append(reasons, ReasonCertifications)
	}
	return reasons
}

// matchSkills returns the fraction of required skills covered by the candidate.
// A skill is covered when either token contains the other, ignoring case.
func matchSkills(candidateSkills, requiredSkills []string) float64 {
	required := normalizeTokens(requiredSkills)
	if len(required) == 0 {
		return 1.0
	}

	have := normalizeTokens(candidateSkills)
	matched := 0
	for _, req := range required {
		for _, skill := range have {
			if strings.Contains(skill, req) || strings.Contains(req, skill) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(required))
}

// EffectiveYears resolves a candidate's experience to years, preferring explicit years over level
func EffectiveYears(exp models.Experience) float64 {
	if exp.Years != nil {
		return *exp.Years
	}
	return RequiredYears(exp.Level)
}

// RequiredYears looks up the years an experience level stands for
func RequiredYears(level models.ExperienceLevel) float64 {
	return levelYears[models.ExperienceLevel(foldToken(string(level)))]
}

func matchExperience(exp models.Experience, level models.ExperienceLevel) float64 {
	years := EffectiveYears(exp)
	required := RequiredYears(level)

	switch {
	case years >= required:
		return 1.0
	case years >= required*0.8:
		return 0.8
	case years >= required*0.6:
		return 0.6
	default:
		return 0.3
	}
}

// matchDistance maps a distance in km onto fixed bands
func matchDistance(km float64) float64 {
	switch {
	case km <= 10:
		return 1.0
	case km <= 25:
		return 0.8
	case km <= 50:
		return 0.6
	case km <= 100:
		return 0.4
	default:
		return 0.2
	}
}

// matchCertifications returns the fraction of required certification types the candidate
// holds among certifications that are valid and not yet expired at now
func matchCertifications(certs []models.Certification, requiredTypes []string, now time.Time) float64 {
	required := normalizeTokens(requiredTypes)
	if len(required) == 0 {
		return 1.0
	}

	held := make(map[string]bool, len(certs))
	for _, cert := range certs {
		if !cert.IsValid || !cert.ExpiryDate.After(now) {
			continue
		}
		if t := foldToken(cert.Type); t != "" {
			held[t] = true
		}
	}

	matched := 0
	for _, req := range required {
		if held[req] {
			matched++
		}
	}

	return float64(matched) / float64(len(required))
}
