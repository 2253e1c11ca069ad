package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/riggerhire/rigmatch/pkg/models"
)

// ErrAlreadyExists is returned when inserting a candidate or job whose ID is taken
var ErrAlreadyExists = errors.New("already exists")

// wrapInsertErr maps key collisions to ErrAlreadyExists; CHECK and foreign key failures pass through
func wrapInsertErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
		}
	}
	return err
}

// Candidate operations

func CreateCandidate(c *models.CandidateProfile) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var years sql.NullFloat64
	if c.Experience.Years != nil {
		years = sql.NullFloat64{Float64: *c.Experience.Years, Valid: true}
	}

	query := `INSERT INTO candidates (id, name, experience_years, experience_level, latitude, longitude,
			  rating, completed_jobs) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.Exec(query, c.CandidateID, c.Name, years, string(c.Experience.Level),
		c.Location.Latitude, c.Location.Longitude, c.Rating, c.CompletedJobs); err != nil {
		return wrapInsertErr(err)
	}

	for _, skill := range c.Skills {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO candidate_skills (candidate_id, skill) VALUES (?, ?)`,
			c.CandidateID, skill); err != nil {
			return err
		}
	}

	for i := range c.Certifications {
		cert := &c.Certifications[i]
		result, err := tx.Exec(`INSERT INTO certifications (candidate_id, type, is_valid, expiry_date) VALUES (?, ?, ?, ?)`,
			c.CandidateID, cert.Type, cert.IsValid, cert.ExpiryDate.UTC())
		if err != nil {
			return err
		}
		id, _ := result.LastInsertId()
		cert.ID = int(id)
	}

	return tx.Commit()
}

func GetCandidate(id string) (*models.CandidateProfile, error) {
	query := `SELECT id, name, experience_years, experience_level, latitude, longitude, rating,
			  completed_jobs, created_at FROM candidates WHERE id=?`
	c, err := scanCandidate(DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := loadCandidateDetails(c); err != nil {
		return nil, err
	}
	return c, nil
}

func GetAllCandidates() ([]*models.CandidateProfile, error) {
	query := `SELECT id, name, experience_years, experience_level, latitude, longitude, rating,
			  completed_jobs, created_at FROM candidates ORDER BY created_at, id`
	rows, err := DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []*models.CandidateProfile{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range candidates {
		if err := loadCandidateDetails(c); err != nil {
			return nil, err
		}
	}
	return candidates, nil
}

func DeleteCandidate(id string) error {
	result, err := DB.Exec(`DELETE FROM candidates WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddCertification attaches a certification to an existing candidate
func AddCertification(candidateID string, cert *models.Certification) error {
	query := `INSERT INTO certifications (candidate_id, type, is_valid, expiry_date) VALUES (?, ?, ?, ?)`
	result, err := DB.Exec(query, candidateID, cert.Type, cert.IsValid, cert.ExpiryDate.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
		}
		return err
	}
	id, _ := result.LastInsertId()
	cert.ID = int(id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*models.CandidateProfile, error) {
	c := &models.CandidateProfile{}
	var name, level sql.NullString
	var years sql.NullFloat64
	err := row.Scan(&c.CandidateID, &name, &years, &level, &c.Location.Latitude,
		&c.Location.Longitude, &c.Rating, &c.CompletedJobs, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Name = name.String
	c.Experience.Level = models.ExperienceLevel(level.String)
	if years.Valid {
		y := years.Float64
		c.Experience.Years = &y
	}
	return c, nil
}

func loadCandidateDetails(c *models.CandidateProfile) error {
	skills, err := queryStrings(`SELECT skill FROM candidate_skills WHERE candidate_id=? ORDER BY rowid`, c.CandidateID)
	if err != nil {
		return err
	}
	c.Skills = skills

	rows, err := DB.Query(`SELECT id, type, is_valid, expiry_date FROM certifications
			  WHERE candidate_id=? ORDER BY id`, c.CandidateID)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Certifications = []models.Certification{}
	for rows.Next() {
		var cert models.Certification
		if err := rows.Scan(&cert.ID, &cert.Type, &cert.IsValid, &cert.ExpiryDate); err != nil {
			return err
		}
		c.Certifications = append(c.Certifications, cert)
	}
	return rows.Err()
}

// Job operations

func CreateJob(job *models.JobRequirement) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO jobs (id, title, experience_level, latitude, longitude, pay_rate, duration, urgency)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.Exec(query, job.JobID, job.Title, string(job.ExperienceLevel), job.Location.Latitude,
		job.Location.Longitude, job.PayRate, job.Duration, job.Urgency); err != nil {
		return wrapInsertErr(err)
	}

	for _, skill := range job.RequiredSkills {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO job_skills (job_id, skill) VALUES (?, ?)`, job.JobID, skill); err != nil {
			return err
		}
	}
	for _, cert := range job.RequiredCertifications {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO job_certifications (job_id, cert_type) VALUES (?, ?)`, job.JobID, cert); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func GetJob(id string) (*models.JobRequirement, error) {
	query := `SELECT id, title, experience_level, latitude, longitude, pay_rate, duration, urgency,
			  created_at FROM jobs WHERE id=?`
	job, err := scanJob(DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := loadJobDetails(job); err != nil {
		return nil, err
	}
	return job, nil
}

func GetAllJobs() ([]*models.JobRequirement, error) {
	query := `SELECT id, title, experience_level, latitude, longitude, pay_rate, duration, urgency,
			  created_at FROM jobs ORDER BY created_at, id`
	rows, err := DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*models.JobRequirement{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if err := loadJobDetails(job); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func DeleteJob(id string) error {
	result, err := DB.Exec(`DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanJob(row rowScanner) (*models.JobRequirement, error) {
	job := &models.JobRequirement{}
	var title, level, duration, urgency sql.NullString
	err := row.Scan(&job.JobID, &title, &level, &job.Location.Latitude, &job.Location.Longitude,
		&job.PayRate, &duration, &urgency, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	job.Title = title.String
	job.ExperienceLevel = models.ExperienceLevel(level.String)
	job.Duration = duration.String
	job.Urgency = urgency.String
	return job, nil
}

func loadJobDetails(job *models.JobRequirement) error {
	skills, err := queryStrings(`SELECT skill FROM job_skills WHERE job_id=? ORDER BY rowid`, job.JobID)
	if err != nil {
		return err
	}
	certs, err := queryStrings(`SELECT cert_type FROM job_certifications WHERE job_id=? ORDER BY rowid`, job.JobID)
	if err != nil {
		return err
	}
	job.RequiredSkills = skills
	job.RequiredCertifications = certs
	return nil
}

func queryStrings(query string, args ...any) ([]string, error) {
	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Match result operations

// SaveMatchResults records scored matches so they can be reviewed later
func SaveMatchResults(results []*models.MatchResult) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO match_results (candidate_id, job_id, score, confidence, distance_km,
			  breakdown, reasoning, scored_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		breakdown, err := json.Marshal(r.Breakdown)
		if err != nil {
			return err
		}
		reasoning, err := json.Marshal(r.Reasoning)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(r.CandidateID, r.JobID, r.Score, r.Confidence, r.DistanceKm,
			string(breakdown), string(reasoning), r.ScoredAt.UTC()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetMatchHistory returns the most recent saved matches for a candidate, newest first
func GetMatchHistory(candidateID string, limit int) ([]*models.MatchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT candidate_id, job_id, score, confidence, distance_km, breakdown, reasoning, scored_at
			  FROM match_results WHERE candidate_id=? ORDER BY scored_at DESC, id DESC LIMIT ?`
	rows, err := DB.Query(query, candidateID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*models.MatchResult{}
	for rows.Next() {
		r := &models.MatchResult{}
		var breakdown, reasoning string
		var scoredAt time.Time
		if err := rows.Scan(&r.CandidateID, &r.JobID, &r.Score, &r.Confidence, &r.DistanceKm,
			&breakdown, &reasoning, &scoredAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(breakdown), &r.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
		if err := json.Unmarshal([]byte(reasoning), &r.Reasoning); err != nil {
			return nil, fmt.Errorf("decode reasoning: %w", err)
		}
		r.ScoredAt = scoredAt
		results = append(results, r)
	}
	return results, rows.Err()
}
