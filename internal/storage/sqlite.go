// Package storage provides the SQLite run journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-flappy/internal/replay"
)

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// RunRecord is a journalled run.
type RunRecord struct {
	ID       int64
	Run      replay.Run
	PlayedAt time.Time
}

// Stats contains aggregated journal statistics.
type Stats struct {
	Runs        int
	TotalFrames int64
	LastPlayed  time.Time // Zero when the journal is empty
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			cause TEXT NOT NULL,
			params TEXT NOT NULL,
			geometry TEXT NOT NULL,
			flaps TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun journals a run. Returns the ID of the inserted record.
func (s *Store) SaveRun(run replay.Run) (int64, error) {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode params: %w", err)
	}
	geometry, err := json.Marshal(run.Geometry)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode geometry: %w", err)
	}
	flaps := run.Flaps
	if flaps == nil {
		flaps = []int{}
	}
	flapsJSON, err := json.Marshal(flaps)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode flaps: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (seed, score, frames, cause, params, geometry, flaps)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Seed, run.Score, run.Frames, string(run.Cause),
		string(params), string(geometry), string(flapsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, seed, score, frames, cause, params, geometry, flaps, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec                     RunRecord
		cause                   string
		params, geometry, flaps string
		createdAt               any
	)

	err := row.Scan(
		&rec.ID,
		&rec.Run.Seed,
		&rec.Run.Score,
		&rec.Run.Frames,
		&cause,
		&params,
		&geometry,
		&flaps,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}

	rec.Run.Cause = replay.Cause(cause)
	if err := json.Unmarshal([]byte(params), &rec.Run.Params); err != nil {
		return rec, fmt.Errorf("storage: run %d: cannot decode params: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(geometry), &rec.Run.Geometry); err != nil {
		return rec, fmt.Errorf("storage: run %d: cannot decode geometry: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(flaps), &rec.Run.Flaps); err != nil {
		return rec, fmt.Errorf("storage: run %d: cannot decode flaps: %w", rec.ID, err)
	}
	rec.PlayedAt = parseTime(createdAt)

	return rec, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Run retrieves a run by its ID. Returns nil without error if it does not exist.
func (s *Store) Run(id int64) (*RunRecord, error) {
	rec, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &rec, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// DeleteRun removes a run. Deleting a missing run is not an error.
func (s *Store) DeleteRun(id int64) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	return nil
}

// Stats returns aggregated statistics over the whole journal.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(frames), 0), MAX(created_at) FROM runs`,
	).Scan(&stats.Runs, &stats.TotalFrames, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}
