package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// ErrNotFound is returned when a candidate or job does not exist
var ErrNotFound = errors.New("not found")

// Initialize opens the SQLite database at path, creating parent directories and tables as needed
func Initialize(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open with DSN options for SQLite pragmas
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	DB = db
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		name TEXT,
		experience_years REAL,
		experience_level TEXT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		rating REAL DEFAULT 0,
		completed_jobs INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		CHECK(experience_years IS NULL OR experience_years >= 0),
		CHECK(rating >= 0 AND rating <= 5)
	);

	CREATE TABLE IF NOT EXISTS candidate_skills (
		candidate_id TEXT NOT NULL,
		skill TEXT NOT NULL,
		PRIMARY KEY (candidate_id, skill),
		FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS certifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id TEXT NOT NULL,
		type TEXT NOT NULL,
		is_valid BOOLEAN DEFAULT 1,
		expiry_date DATETIME NOT NULL,
		FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT,
		experience_level TEXT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		pay_rate REAL DEFAULT 0,
		duration TEXT,
		urgency TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS job_skills (
		job_id TEXT NOT NULL,
		skill TEXT NOT NULL,
		PRIMARY KEY (job_id, skill),
		FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS job_certifications (
		job_id TEXT NOT NULL,
		cert_type TEXT NOT NULL,
		PRIMARY KEY (job_id, cert_type),
		FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS match_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id TEXT NOT NULL,
		job_id TEXT NOT NULL,
		score REAL NOT NULL,
		confidence REAL NOT NULL,
		distance_km REAL NOT NULL,
		breakdown TEXT NOT NULL,
		reasoning TEXT NOT NULL,
		scored_at DATETIME NOT NULL,
		FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE,
		FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE,
		CHECK(score >= 0 AND score <= 1)
	);

	CREATE INDEX IF NOT EXISTS idx_certifications_candidate ON certifications(candidate_id);
	CREATE INDEX IF NOT EXISTS idx_match_results_candidate ON match_results(candidate_id, scored_at);
	`

	_, err := db.Exec(schema)
	return err
}
