package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// JobStatus is the application pipeline stage for a tracked job.
type JobStatus string

const (
	StatusSaved     JobStatus = "saved"
	StatusApplied   JobStatus = "applied"
	StatusInterview JobStatus = "interview"
	StatusOffer     JobStatus = "offer"
	StatusRejected  JobStatus = "rejected"
)

// TrackedJob is a single entry in the application tracker.
type TrackedJob struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	URL       string    `json:"url"`
	Status    JobStatus `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Salary    string    `json:"salary,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// TrackerAdd is the input for adding a tracked job.
type TrackerAdd struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	URL      string `json:"url,omitempty"`
	Status   string `json:"status,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Salary   string `json:"salary,omitempty"`
	Location string `json:"location,omitempty"`
}

// TrackerUpdate is the input for updating a tracked job.
type TrackerUpdate struct {
	ID     int64  `json:"id"`
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// TrackerStore is the SQLite-backed application tracker.
type TrackerStore struct {
	db *sql.DB
}

// Package-level instance, set from main.
var tracker *TrackerStore

// SetTracker sets the package-level tracker instance.
func SetTracker(t *TrackerStore) { tracker = t }

// GetTracker returns the package-level tracker instance (may be nil).
func GetTracker() *TrackerStore { return tracker }

// DefaultTrackerPath is the tracker location under the user's home.
func DefaultTrackerPath() string {
	return filepath.Join(os.Getenv("HOME"), ".cyno", "tracker.db")
}

// OpenTracker opens (or creates) the tracker database at path.
func OpenTracker(path string) (*TrackerStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("tracker: mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tracker: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT NOT NULL,
		company    TEXT NOT NULL,
		url        TEXT,
		status     TEXT NOT NULL DEFAULT 'saved',
		notes      TEXT,
		salary     TEXT,
		location   TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("tracker: init schema: %w", err)
	}
	return &TrackerStore{db: db}, nil
}

func (t *TrackerStore) Close() error { return t.db.Close() }

// validStatus checks a status string against the known pipeline stages.
func validStatus(s string) bool {
	switch JobStatus(s) {
	case StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Add saves a new job to the tracker and returns its ID.
func (t *TrackerStore) Add(ctx context.Context, input TrackerAdd) (int64, error) {
	if input.Title == "" || input.Company == "" {
		return 0, errors.New("tracker: title and company are required")
	}

	status := strings.ToLower(input.Status)
	if status == "" {
		status = string(StatusSaved)
	}
	if !validStatus(status) {
		return 0, fmt.Errorf("tracker: invalid status %q (valid: saved, applied, interview, offer, rejected)", status)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := t.db.ExecContext(ctx,
		`INSERT INTO jobs (title, company, url, status, notes, salary, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Title, input.Company, input.URL, status,
		input.Notes, input.Salary, input.Location, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("tracker: insert: %w", err)
	}
	return res.LastInsertId()
}

// List returns tracked jobs newest-first, optionally filtered by status.
// The second return is the total row count for the filter.
func (t *TrackerStore) List(ctx context.Context, status string, limit int) ([]TrackedJob, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	if status != "" {
		status = strings.ToLower(status)
		if !validStatus(status) {
			return nil, 0, fmt.Errorf("tracker: invalid status %q", status)
		}
		rows, err = t.db.QueryContext(ctx,
			`SELECT id, title, company, url, status, notes, salary, location, created_at, updated_at
			 FROM jobs WHERE status = ? ORDER BY updated_at DESC LIMIT ?`,
			status, limit,
		)
	} else {
		rows, err = t.db.QueryContext(ctx,
			`SELECT id, title, company, url, status, notes, salary, location, created_at, updated_at
			 FROM jobs ORDER BY updated_at DESC LIMIT ?`,
			limit,
		)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("tracker: query: %w", err)
	}
	defer rows.Close()

	jobs := []TrackedJob{}
	for rows.Next() {
		var j TrackedJob
		var notes, salary, location, url sql.NullString
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &url, &j.Status,
			&notes, &salary, &location, &j.CreatedAt, &j.UpdatedAt); err != nil {
			continue
		}
		j.URL = url.String
		j.Notes = notes.String
		j.Salary = salary.String
		j.Location = location.String
		jobs = append(jobs, j)
	}

	var total int
	if status != "" {
		t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE status = ?`, status).Scan(&total) //nolint:errcheck
	} else {
		t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total) //nolint:errcheck
	}
	return jobs, total, nil
}

// Update changes the status and/or notes of a tracked job.
func (t *TrackerStore) Update(ctx context.Context, input TrackerUpdate) error {
	if input.ID <= 0 {
		return errors.New("tracker: id is required")
	}
	if input.Status == "" && input.Notes == "" {
		return errors.New("tracker: at least one of status or notes must be provided")
	}

	now := time.Now().UTC().Format(time.RFC3339)

	var res sql.Result
	var err error
	switch {
	case input.Status != "" && input.Notes != "":
		status := strings.ToLower(input.Status)
		if !validStatus(status) {
			return fmt.Errorf("tracker: invalid status %q", status)
		}
		res, err = t.db.ExecContext(ctx, `UPDATE jobs SET status=?, notes=?, updated_at=? WHERE id=?`,
			status, input.Notes, now, input.ID)
	case input.Status != "":
		status := strings.ToLower(input.Status)
		if !validStatus(status) {
			return fmt.Errorf("tracker: invalid status %q", status)
		}
		res, err = t.db.ExecContext(ctx, `UPDATE jobs SET status=?, updated_at=? WHERE id=?`,
			status, now, input.ID)
	default:
		res, err = t.db.ExecContext(ctx, `UPDATE jobs SET notes=?, updated_at=? WHERE id=?`,
			input.Notes, now, input.ID)
	}
	if err != nil {
		return fmt.Errorf("tracker: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tracker: no job with id %d", input.ID)
	}
	return nil
}
