package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"go-survey-stats/internal/model"
)

// SQLiteStore keeps results and the job journal in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// JobRecord is one row of the journal's jobs table.
type JobRecord struct {
	ID        int64         `json:"id"`
	Operation string        `json:"operation"`
	Payload   model.Payload `json:"payload"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// OpenSQLite opens the database at path and creates tables if not exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "jobs.db"
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	jobTable := `
	CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY,
		operation TEXT,
		payload TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS job_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id INTEGER,
		error_message TEXT,
		created_at DATETIME
	);
	`
	resultTable := `
	CREATE TABLE IF NOT EXISTS results (
		job_id INTEGER PRIMARY KEY,
		data TEXT NOT NULL,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{jobTable, errorTable, resultTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// ------------------- Results -------------------

func (s *SQLiteStore) Write(ctx context.Context, jobID int64, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %d: %w", jobID, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO results (job_id, data, created_at) VALUES (?, ?, ?)`,
		jobID, string(data), time.Now().UTC())
	if isConstraintError(err) {
		return fmt.Errorf("job %d: %w", jobID, model.ErrAlreadyWritten)
	}
	return err
}

func (s *SQLiteStore) Read(ctx context.Context, jobID int64) (*model.Result, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM results WHERE job_id = ?`, jobID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", jobID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	result := model.NewResult()
	if err := json.Unmarshal([]byte(data), result); err != nil {
		return nil, fmt.Errorf("decode result %d: %w", jobID, err)
	}
	return result, nil
}

// Reset empties the results table and the journal.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"results", "job_errors", "jobs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// ------------------- Journal -------------------

// RecordSubmitted stores a new job as running
func (s *SQLiteStore) RecordSubmitted(ctx context.Context, job model.Job) error {
	payloadJSON, err := json.Marshal(job.Payload)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, operation, payload, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, string(job.Operation), string(payloadJSON), string(model.StateRunning), job.SubmittedAt, now)
	return err
}

// RecordState updates job status
func (s *SQLiteStore) RecordState(ctx context.Context, jobID int64, state model.JobState) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
		string(state), now, jobID)
	return err
}

// RecordError records an error for a job
func (s *SQLiteStore) RecordError(ctx context.Context, jobID int64, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := s.db.ExecContext(ctx, `INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, err.Error(), now)
	return e
}

// ListJobs returns all journaled jobs, oldest first
func (s *SQLiteStore) ListJobs(ctx context.Context) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, payload, status, created_at, updated_at FROM jobs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []JobRecord
	for rows.Next() {
		var rec JobRecord
		var payloadJSON string
		if err := rows.Scan(&rec.ID, &rec.Operation, &payloadJSON, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadJSON), &rec.Payload); err != nil {
			return nil, err
		}
		jobs = append(jobs, rec)
	}
	return jobs, rows.Err()
}

// JobErrors returns the error messages recorded for a job
func (s *SQLiteStore) JobErrors(ctx context.Context, jobID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT error_message FROM job_errors WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
