package database

import (
	"errors"
	"time"

	"github.com/riggerhire/rigmatch/pkg/models"
)

func floatPtr(f float64) *float64 { return &f }

// SampleCandidates returns the demo candidates loaded by Seed
func SampleCandidates() []*models.CandidateProfile {
	expiry := time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)
	return []*models.CandidateProfile{
		{
			CandidateID: "cand-perth-001",
			Name:        "Perth Rigger",
			Skills:      []string{"rigging", "crane_operation", "safety"},
			Experience:  models.Experience{Years: floatPtr(5)},
			Certifications: []models.Certification{
				{Type: "rigging_basic", IsValid: true, ExpiryDate: expiry},
				{Type: "safety_certificate", IsValid: true, ExpiryDate: expiry},
			},
			Location:      models.Location{Latitude: -31.9505, Longitude: 115.8605},
			Rating:        4.6,
			CompletedJobs: 38,
		},
		{
			CandidateID: "cand-pilbara-002",
			Name:        "Pilbara Dogman",
			Skills:      []string{"dogging", "heavy_lifting", "scaffolding"},
			Experience:  models.Experience{Level: models.LevelSenior},
			Certifications: []models.Certification{
				{Type: "dogging", IsValid: true, ExpiryDate: expiry},
				{Type: "rigging_intermediate", IsValid: false, ExpiryDate: expiry},
			},
			Location:      models.Location{Latitude: -20.3106, Longitude: 118.5878},
			Rating:        4.1,
			CompletedJobs: 12,
		},
	}
}

// SampleJobs returns the demo jobs loaded by Seed
func SampleJobs() []*models.JobRequirement {
	return []*models.JobRequirement{
		{
			JobID:                  "job-perth-cbd-lift",
			Title:                  "CBD tower crane lift",
			RequiredSkills:         []string{"rigging", "heavy_lifting"},
			ExperienceLevel:        models.LevelIntermediate,
			RequiredCertifications: []string{"rigging_basic", "safety_certificate"},
			Location:               models.Location{Latitude: -31.9505, Longitude: 115.8605},
			PayRate:                65,
			Duration:               "2 weeks",
			Urgency:                "high",
		},
		{
			JobID:                  "job-fremantle-port",
			Title:                  "Fremantle port shutdown",
			RequiredSkills:         []string{"rigging", "safety"},
			ExperienceLevel:        models.LevelJunior,
			RequiredCertifications: []string{"safety_certificate"},
			Location:               models.Location{Latitude: -32.0569, Longitude: 115.7439},
			PayRate:                58,
			Duration:               "5 days",
			Urgency:                "medium",
		},
		{
			JobID:                  "job-port-hedland-shutdown",
			Title:                  "Port Hedland plant shutdown",
			RequiredSkills:         []string{"dogging", "scaffolding"},
			ExperienceLevel:        models.LevelSenior,
			RequiredCertifications: []string{"dogging", "rigging_intermediate"},
			Location:               models.Location{Latitude: -20.3106, Longitude: 118.5878},
			PayRate:                82,
			Duration:               "6 weeks",
			Urgency:                "low",
		},
	}
}

// Seed loads the sample candidates and jobs, skipping any that are already present.
// Returns how many records were inserted.
func Seed() (int, error) {
	inserted := 0
	for _, c := range SampleCandidates() {
		err := CreateCandidate(c)
		if errors.Is(err, ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	for _, j := range SampleJobs() {
		err := CreateJob(j)
		if errors.Is(err, ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
