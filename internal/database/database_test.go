package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestDB creates a temporary test database
func createTestDB(t testing.TB) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))
	return db
}

// setupTest points the package DB at a fresh database for the duration of the test
func setupTest(t testing.TB) {
	db := createTestDB(t)
	oldDB := DB
	DB = db

	t.Cleanup(func() {
		DB = oldDB
		db.Close()
	})
}

func TestInitialize(t *testing.T) {
	oldDB := DB
	t.Cleanup(func() { DB = oldDB })

	path := filepath.Join(t.TempDir(), "nested", "rigmatch.db")
	require.NoError(t, Initialize(path))
	t.Cleanup(func() { Close() })

	_, err := GetAllJobs()
	assert.NoError(t, err)
}

func TestCreateAndGetCandidate(t *testing.T) {
	setupTest(t)

	candidate := SampleCandidates()[0]
	require.NoError(t, CreateCandidate(candidate))
	assert.NotZero(t, candidate.Certifications[0].ID)

	got, err := GetCandidate(candidate.CandidateID)
	require.NoError(t, err)

	assert.Equal(t, candidate.Name, got.Name)
	assert.Equal(t, []string{"rigging", "crane_operation", "safety"}, got.Skills)
	require.NotNil(t, got.Experience.Years)
	assert.Equal(t, 5.0, *got.Experience.Years)
	assert.Equal(t, candidate.Location, got.Location)
	assert.Equal(t, 4.6, got.Rating)
	assert.Equal(t, 38, got.CompletedJobs)
	require.Len(t, got.Certifications, 2)
	assert.Equal(t, "rigging_basic", got.Certifications[0].Type)
	assert.True(t, got.Certifications[0].IsValid)
	assert.True(t, candidate.Certifications[0].ExpiryDate.Equal(got.Certifications[0].ExpiryDate))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateCandidate_LevelOnly(t *testing.T) {
	setupTest(t)

	candidate := SampleCandidates()[1]
	require.NoError(t, CreateCandidate(candidate))

	got, err := GetCandidate(candidate.CandidateID)
	require.NoError(t, err)
	assert.Nil(t, got.Experience.Years)
	assert.Equal(t, models.LevelSenior, got.Experience.Level)
	assert.False(t, got.Certifications[1].IsValid)
}

func TestCreateCandidate_Duplicate(t *testing.T) {
	setupTest(t)

	require.NoError(t, CreateCandidate(&models.CandidateProfile{CandidateID: "dup"}))
	err := CreateCandidate(&models.CandidateProfile{CandidateID: "dup"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateCandidate_CheckViolationIsNotDuplicate(t *testing.T) {
	setupTest(t)

	err := CreateCandidate(&models.CandidateProfile{CandidateID: "fresh", Rating: 6})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAlreadyExists))

	negative := -2.0
	err = CreateCandidate(&models.CandidateProfile{CandidateID: "fresh", Experience: models.Experience{Years: &negative}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	_, err = GetCandidate("fresh")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCandidate_NotFound(t *testing.T) {
	setupTest(t)

	_, err := GetCandidate("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteCandidate("missing"), ErrNotFound)
}

func TestAddCertification(t *testing.T) {
	setupTest(t)

	require.NoError(t, CreateCandidate(&models.CandidateProfile{CandidateID: "c1"}))

	cert := &models.Certification{Type: "white_card", IsValid: true, ExpiryDate: time.Now().Add(48 * time.Hour)}
	require.NoError(t, AddCertification("c1", cert))
	assert.NotZero(t, cert.ID)

	got, err := GetCandidate("c1")
	require.NoError(t, err)
	require.Len(t, got.Certifications, 1)
	assert.Equal(t, "white_card", got.Certifications[0].Type)

	err = AddCertification("nobody", &models.Certification{Type: "x", ExpiryDate: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobs(t *testing.T) {
	setupTest(t)

	for _, job := range SampleJobs() {
		require.NoError(t, CreateJob(job))
	}

	jobs, err := GetAllJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	got, err := GetJob("job-perth-cbd-lift")
	require.NoError(t, err)
	assert.Equal(t, []string{"rigging", "heavy_lifting"}, got.RequiredSkills)
	assert.Equal(t, []string{"rigging_basic", "safety_certificate"}, got.RequiredCertifications)
	assert.Equal(t, models.LevelIntermediate, got.ExperienceLevel)
	assert.Equal(t, 65.0, got.PayRate)
	assert.Equal(t, "high", got.Urgency)

	require.NoError(t, DeleteJob("job-perth-cbd-lift"))
	_, err = GetJob("job-perth-cbd-lift")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, CreateJob(SampleJobs()[1]), ErrAlreadyExists)
}

func TestDeleteCandidateCascade(t *testing.T) {
	setupTest(t)

	candidate := SampleCandidates()[0]
	require.NoError(t, CreateCandidate(candidate))

	require.NoError(t, DeleteCandidate(candidate.CandidateID))

	var n int
	require.NoError(t, DB.QueryRow(`SELECT COUNT(*) FROM certifications`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, DB.QueryRow(`SELECT COUNT(*) FROM candidate_skills`).Scan(&n))
	assert.Zero(t, n)
}

func TestMatchHistory(t *testing.T) {
	setupTest(t)

	_, err := Seed()
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	results := []*models.MatchResult{
		{
			CandidateID: "cand-perth-001", JobID: "job-perth-cbd-lift", Score: 0.8, Confidence: 0.85,
			Breakdown: models.Breakdown{Skill: 0.5, Experience: 1, Location: 1, Certification: 1},
			Reasoning: []string{"Close to job site"}, ScoredAt: base,
		},
		{
			CandidateID: "cand-perth-001", JobID: "job-fremantle-port", Score: 0.88, Confidence: 0.85,
			DistanceKm: 16.2, Reasoning: []string{}, ScoredAt: base.Add(time.Minute),
		},
	}
	require.NoError(t, SaveMatchResults(results))

	history, err := GetMatchHistory("cand-perth-001", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "job-fremantle-port", history[0].JobID)
	assert.Equal(t, 16.2, history[0].DistanceKm)
	assert.Equal(t, 0.5, history[1].Breakdown.Skill)
	assert.Equal(t, []string{"Close to job site"}, history[1].Reasoning)
	assert.True(t, base.Equal(history[1].ScoredAt))
}

func TestSaveMatchResults_RejectsUnknownJob(t *testing.T) {
	setupTest(t)

	require.NoError(t, CreateCandidate(&models.CandidateProfile{CandidateID: "c1"}))
	err := SaveMatchResults([]*models.MatchResult{{CandidateID: "c1", JobID: "ghost", ScoredAt: time.Now()}})
	assert.Error(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	setupTest(t)

	n, err := Seed()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = Seed()
	require.NoError(t, err)
	assert.Zero(t, n)

	candidates, err := GetAllCandidates()
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func BenchmarkCreateJob(b *testing.B) {
	setupTest(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		job := &models.JobRequirement{
			JobID:          fmt.Sprintf("job-%d", i),
			RequiredSkills: []string{"rigging"},
		}
		if err := CreateJob(job); err != nil {
			b.Fatal(err)
		}
	}
}
