package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/pkg/metrics"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    family TEXT NOT NULL,
    kind TEXT NOT NULL,
    outcome TEXT NOT NULL CHECK(outcome IN ('matched', 'mismatch', 'parse_error', 'unknown_kind', 'marshal_error')),
    event TEXT NOT NULL,
    record TEXT,
    text TEXT NOT NULL,
    unparsed TEXT NOT NULL,
    diff_offset INTEGER NOT NULL,
    checked_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_outcome ON results(outcome);
CREATE INDEX IF NOT EXISTS idx_results_family ON results(family);
`

const resultColumns = `id, family, kind, outcome, event, record, text, unparsed, diff_offset, checked_at`

// SQLiteStore persists results in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at dsn and creates the results table. Use
// ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, res Result) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositorySaveLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := validate(&res); err != nil {
		return err
	}
	var record sql.NullString
	if len(res.Record) > 0 {
		record = sql.NullString{String: string(res.Record), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (`+resultColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   family = excluded.family,
		   kind = excluded.kind,
		   outcome = excluded.outcome,
		   event = excluded.event,
		   record = excluded.record,
		   text = excluded.text,
		   unparsed = excluded.unparsed,
		   diff_offset = excluded.diff_offset,
		   checked_at = excluded.checked_at`,
		res.ID,
		string(res.Family),
		res.Kind,
		string(res.Outcome),
		res.Event,
		record,
		res.Text,
		res.Unparsed,
		res.Offset,
		toMillis(res.CheckedAt),
	)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "save_failed")
		return fmt.Errorf("save result %s: %w", res.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var (
		res       Result
		family    string
		outcome   string
		record    sql.NullString
		checkedAt int64
	)
	if err := row.Scan(&res.ID, &family, &res.Kind, &outcome, &res.Event, &record,
		&res.Text, &res.Unparsed, &res.Offset, &checkedAt); err != nil {
		return Result{}, err
	}
	res.Family = model.Family(family)
	res.Outcome = roundtrip.Outcome(outcome)
	if record.Valid {
		res.Record = []byte(record.String)
	}
	res.CheckedAt = fromMillis(checkedAt)
	return res, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("get result %s: %w", id, err)
	}
	return res, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	limit, err := filter.limit()
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, string(filter.Outcome))
	}
	if filter.Family != "" {
		where = append(where, "family = ?")
		args = append(args, string(filter.Family))
	}
	query := `SELECT ` + resultColumns + ` FROM results`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

// Counts implements Store.
func (s *SQLiteStore) Counts(ctx context.Context) (map[roundtrip.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM results GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}
	defer rows.Close()

	counts := make(map[roundtrip.Outcome]int, len(roundtrip.Outcomes))
	total := 0
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[roundtrip.Outcome(outcome)] = n
		total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}
	metrics.UpdateRepositoryResultsTotal(total)
	return counts, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
