package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists calendar events in PostgreSQL. Every operation runs
// inside its own transaction: commit on success, rollback on any failure, and
// the connection is returned to the pool before the call returns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initEventSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initEventSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			event_date DATE NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_date_start ON events (event_date, start_time);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init event schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, e NewEvent) (Event, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	ev := Event{
		Title:       e.Title,
		Description: e.Description,
		Date:        DateOnly(e.Date),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO events (title, description, event_date, start_time, end_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		ev.Title, ev.Description, ev.Date, ev.StartTime, ev.EndTime, ev.CreatedAt, ev.UpdatedAt,
	).Scan(&ev.ID)
	if err != nil {
		return Event{}, fmt.Errorf("insert event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Event{}, fmt.Errorf("commit tx: %w", err)
	}
	return ev, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, title, description, event_date, start_time, end_time, created_at, updated_at
		 FROM events WHERE id=$1`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	if err != nil {
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

func (s *PostgresStore) OnDate(ctx context.Context, date time.Time) ([]Event, error) {
	d := DateOnly(date)
	return s.Query(ctx, Filter{Start: &d, End: &d})
}

func (s *PostgresStore) Query(ctx context.Context, f Filter) ([]Event, error) {
	var (
		where []string
		args  []any
	)
	if f.Start != nil {
		args = append(args, DateOnly(*f.Start))
		where = append(where, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if f.End != nil {
		args = append(args, DateOnly(*f.End))
		where = append(where, fmt.Sprintf("event_date <= $%d", len(args)))
	}
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		where = append(where, fmt.Sprintf("(title LIKE $%d OR description LIKE $%d)", len(args), len(args)))
	}

	query := `SELECT id, title, description, event_date, start_time, end_time, created_at, updated_at FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY event_date, start_time, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) (Event, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`DELETE FROM events WHERE id=$1
		 RETURNING id, title, description, event_date, start_time, end_time, created_at, updated_at`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	if err != nil {
		return Event{}, fmt.Errorf("delete event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Event{}, fmt.Errorf("commit tx: %w", err)
	}
	return ev, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var ev Event
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Date,
		&ev.StartTime, &ev.EndTime, &ev.CreatedAt, &ev.UpdatedAt)
	return ev, err
}
