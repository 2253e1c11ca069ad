package models

import "time"

// ExperienceLevel is a coarse seniority bucket used when explicit years are not known
type ExperienceLevel string

const (
	LevelEntry        ExperienceLevel = "entry"
	LevelJunior       ExperienceLevel = "junior"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelSenior       ExperienceLevel = "senior"
	LevelExpert       ExperienceLevel = "expert"
)

// Location is a point in decimal degrees
type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Experience describes how much a candidate has worked. Years wins over Level when both are set.
type Experience struct {
	Years *float64        `json:"years,omitempty" validate:"omitempty,gte=0"`
	Level ExperienceLevel `json:"level,omitempty"`
}

// Certification is a ticket or licence held by a candidate
type Certification struct {
	ID         int       `json:"id,omitempty"`
	Type       string    `json:"type"`
	IsValid    bool      `json:"is_valid"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// CandidateProfile represents a worker looking for jobs
type CandidateProfile struct {
	CandidateID    string          `json:"candidate_id" validate:"required"`
	Name           string          `json:"name,omitempty"`
	Skills         []string        `json:"skills"`
	Experience     Experience      `json:"experience"`
	Certifications []Certification `json:"certifications"`
	Location       Location        `json:"location"`
	Rating         float64         `json:"rating" validate:"gte=0,lte=5"`
	CompletedJobs  int             `json:"completed_jobs" validate:"gte=0"`
	CreatedAt      time.Time       `json:"created_at,omitempty"`
}

// JobRequirement represents what a job needs from a candidate
type JobRequirement struct {
	JobID                  string          `json:"job_id" validate:"required"`
	Title                  string          `json:"title,omitempty"`
	RequiredSkills         []string        `json:"required_skills"`
	ExperienceLevel        ExperienceLevel `json:"experience_level,omitempty"`
	RequiredCertifications []string        `json:"required_certifications"`
	Location               Location        `json:"location"`
	PayRate                float64         `json:"pay_rate,omitempty"`
	Duration               string          `json:"duration,omitempty"`
	Urgency                string          `json:"urgency,omitempty"`
	CreatedAt              time.Time       `json:"created_at,omitempty"`
}

// Breakdown holds the raw sub-scores a match score is built from
type Breakdown struct {
	Skill         float64 `json:"skill"`
	Experience    float64 `json:"experience"`
	Location      float64 `json:"location"`
	Certification float64 `json:"certification"`
}

// MatchResult is the outcome of scoring one candidate against one job
type MatchResult struct {
	JobID       string    `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	Score       float64   `json:"score"`
	Confidence  float64   `json:"confidence"`
	Reasoning   []string  `json:"reasoning"`
	Breakdown   Breakdown `json:"breakdown"`
	DistanceKm  float64   `json:"distance_km"`
	ScoredAt    time.Time `json:"scored_at"`
}
