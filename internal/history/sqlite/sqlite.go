package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mkweon/sente/internal/history"
)

// DB implements history.Store on SQLite (modernc.org/sqlite, CGO-free).
// DSN is a filesystem path; ":memory:" gives an in-memory database.
type DB struct {
	db *sql.DB
}

// New opens (and schemas) a SQLite event log at path.
// Accepted forms: "sqlite:///path/to/file.db", "/path/to/file.db",
// ":memory:".
func New(path string) (*DB, error) {
	p := strings.TrimSpace(path)
	if strings.HasPrefix(strings.ToLower(p), "sqlite://") {
		p = strings.TrimPrefix(p, "sqlite://")
	}
	if p == "" {
		return nil, errors.New("empty sqlite path")
	}
	d, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// busy timeout helps with short concurrent locks
	_, _ = d.Exec("PRAGMA busy_timeout=3000;")
	s := &DB{db: d}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = d.Close()
		return nil, err
	}
	return s, nil
}

func (s *DB) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS worker_history(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uniq TEXT NOT NULL UNIQUE,
			occurred_at TIMESTAMP NOT NULL,
			worker TEXT NOT NULL,
			pid INTEGER NOT NULL,
			event TEXT NOT NULL,
			detail TEXT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_worker_history_worker ON worker_history(worker);`,
		`CREATE INDEX IF NOT EXISTS idx_worker_history_occurred ON worker_history(occurred_at);`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *DB) Send(ctx context.Context, e history.Event) error {
	var detail any
	if e.Detail != "" {
		detail = e.Detail
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO worker_history(uniq, occurred_at, worker, pid, event, detail)
		VALUES(?, ?, ?, ?, ?, ?);`,
		e.ID, e.OccurredAt.UTC(), e.Worker, e.PID, string(e.Type), detail)
	return err
}

func (s *DB) Recent(ctx context.Context, worker string, limit int) ([]history.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var (
		rows *sql.Rows
		err  error
	)
	if worker == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT uniq, occurred_at, worker, pid, event, detail
			FROM worker_history
			ORDER BY occurred_at DESC, id DESC
			LIMIT ?;`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT uniq, occurred_at, worker, pid, event, detail
			FROM worker_history
			WHERE worker=?
			ORDER BY occurred_at DESC, id DESC
			LIMIT ?;`, worker, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := make([]history.Event, 0)
	for rows.Next() {
		var (
			e      history.Event
			typ    string
			detail sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.Worker, &e.PID, &typ, &detail); err != nil {
			return nil, err
		}
		e.Type = history.EventType(typ)
		if detail.Valid {
			e.Detail = detail.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *DB) Close() error { return s.db.Close() }
