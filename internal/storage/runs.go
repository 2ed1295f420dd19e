package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one reconstruction of a replay: how far the driver got and why it
// stopped.
type Run struct {
	ID                string    `json:"id"`
	Replay            string    `json:"replay"`
	HomeTeam          string    `json:"home_team"`
	AwayTeam          string    `json:"away_team"`
	HomeScore         int       `json:"home_score"`
	AwayScore         int       `json:"away_score"`
	Events            int       `json:"events"`
	CommandsTotal     int       `json:"commands_total"`
	CommandsRemaining int       `json:"commands_remaining"`
	EntriesRemaining  int       `json:"entries_remaining"`
	ErrorKind         string    `json:"error_kind,omitempty"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	Completed         bool      `json:"completed"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
}

// Coverage is the share of commands the driver consumed.
func (r *Run) Coverage() float64 {
	if r.CommandsTotal == 0 {
		return 0
	}
	return float64(r.CommandsTotal-r.CommandsRemaining) / float64(r.CommandsTotal)
}

// RunEvent is a stored event of a run.
type RunEvent struct {
	RunID   string          `json:"run_id"`
	Seq     int             `json:"seq"`
	Half    int             `json:"half"`
	Turn    int             `json:"turn"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RunStats aggregates every stored run.
type RunStats struct {
	Runs         int            `json:"runs"`
	Completed    int            `json:"completed"`
	Events       int            `json:"events"`
	MeanCoverage float64        `json:"mean_coverage"`
	ByErrorKind  map[string]int `json:"by_error_kind"`
}

// RunRepository stores reconstruction runs.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create stores a run and its events in one transaction. A run without an
// id is given a new one, and events are given their run's id.
func (r *RunRepository) Create(ctx context.Context, run *Run, events []RunEvent) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO replay_runs (
				id, replay, home_team, away_team, home_score, away_score, events,
				commands_total, commands_remaining, entries_remaining,
				error_kind, error_message, completed, started_at, finished_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID, run.Replay, run.HomeTeam, run.AwayTeam, run.HomeScore, run.AwayScore, run.Events,
			run.CommandsTotal, run.CommandsRemaining, run.EntriesRemaining,
			run.ErrorKind, run.ErrorMessage, run.Completed,
			run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO replay_events (run_id, seq, half, turn, type, payload)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare event insert: %w", err)
		}
		defer stmt.Close()

		for i := range events {
			events[i].RunID = run.ID
			e := events[i]
			if _, err := stmt.ExecContext(ctx, e.RunID, e.Seq, e.Half, e.Turn, e.Type, string(e.Payload)); err != nil {
				return fmt.Errorf("insert event %d: %w", e.Seq, err)
			}
		}
		return nil
	})
}

const runColumns = `
	id, replay, home_team, away_team, home_score, away_score, events,
	commands_total, commands_remaining, entries_remaining,
	error_kind, error_message, completed, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var started, finished string
	err := s.Scan(
		&run.ID, &run.Replay, &run.HomeTeam, &run.AwayTeam, &run.HomeScore, &run.AwayScore, &run.Events,
		&run.CommandsTotal, &run.CommandsRemaining, &run.EntriesRemaining,
		&run.ErrorKind, &run.ErrorMessage, &run.Completed, &started, &finished,
	)
	if err != nil {
		return nil, err
	}
	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	return &run, nil
}

// List returns the newest runs first. A limit of 0 or less returns all.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM replay_runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListByReplay returns the runs of one replay, newest first.
func (r *RunRepository) ListByReplay(ctx context.Context, replay string) ([]*Run, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+runColumns+` FROM replay_runs WHERE replay = ? ORDER BY started_at DESC, id`, replay)
	if err != nil {
		return nil, fmt.Errorf("query runs for %s: %w", replay, err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns a run by id.
func (r *RunRepository) Get(ctx context.Context, id string) (*Run, error) {
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+runColumns+` FROM replay_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// Events returns a run's events in order. An optional type filters them.
func (r *RunRepository) Events(ctx context.Context, id, eventType string) ([]RunEvent, error) {
	query := `SELECT run_id, seq, half, turn, type, payload FROM replay_events WHERE run_id = ?`
	args := []any{id}
	if eventType != "" {
		query += ` AND type = ?`
		args = append(args, eventType)
	}
	query += ` ORDER BY seq`

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events for %s: %w", id, err)
	}
	defer rows.Close()

	var events []RunEvent
	for rows.Next() {
		var e RunEvent
		var payload string
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Half, &e.Turn, &e.Type, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Stats aggregates coverage over every run.
func (r *RunRepository) Stats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{ByErrorKind: make(map[string]int)}

	var coverage sql.NullFloat64
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(completed), 0),
			COALESCE(SUM(events), 0),
			AVG(CASE WHEN commands_total > 0
				THEN CAST(commands_total - commands_remaining AS REAL) / commands_total
				ELSE 0 END)
		FROM replay_runs
	`).Scan(&stats.Runs, &stats.Completed, &stats.Events, &coverage)
	if err != nil {
		return nil, fmt.Errorf("query run totals: %w", err)
	}
	stats.MeanCoverage = coverage.Float64

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT error_kind, COUNT(*) FROM replay_runs
		WHERE error_kind != ''
		GROUP BY error_kind
	`)
	if err != nil {
		return nil, fmt.Errorf("query error kinds: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan error kind: %w", err)
		}
		stats.ByErrorKind[kind] = n
	}
	return stats, rows.Err()
}

// Delete removes a run and its events.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM replay_events WHERE run_id = ?`, id); err != nil {
			return fmt.Errorf("delete events of %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM replay_runs WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete run %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("delete run %s: %w", id, ErrRunNotFound)
		}
		return nil
	})
}
