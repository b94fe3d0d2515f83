package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"news-reporter/internal/schedule"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
    id          TEXT PRIMARY KEY,
    time_of_day TEXT NOT NULL,
    request     TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_time ON jobs(time_of_day);
`

// SQLiteJobStore persists jobs in a local SQLite file.
type SQLiteJobStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteJobStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteJobStore{db: db}, nil
}

func (s *SQLiteJobStore) Close() error { return s.db.Close() }

func (s *SQLiteJobStore) List(ctx context.Context) ([]schedule.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, time_of_day, request, created_at FROM jobs ORDER BY time_of_day, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []schedule.Job
	for rows.Next() {
		var (
			j   schedule.Job
			req string
		)
		if err := rows.Scan(&j.ID, &j.TimeOfDay, &req, &j.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(req), &j.Request); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", j.ID, err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *SQLiteJobStore) Add(ctx context.Context, j schedule.Job) error {
	req, err := json.Marshal(j.Request)
	if err != nil {
		return err
	}
	created := j.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, time_of_day, request, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET time_of_day = excluded.time_of_day, request = excluded.request
	`, j.ID, j.TimeOfDay, string(req), created.UTC())
	return err
}

func (s *SQLiteJobStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", schedule.ErrJobNotFound, id)
	}
	return nil
}
