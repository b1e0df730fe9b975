package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kamusis/agent-scout/internal/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS interviews (
	id            TEXT PRIMARY KEY,
	candidate     TEXT NOT NULL,
	task          TEXT NOT NULL,
	question      TEXT NOT NULL,
	answer        TEXT,
	score         INTEGER NOT NULL,
	justification TEXT NOT NULL,
	state         TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	finished_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interviews_finished ON interviews(finished_at);
`

// timeLayout is fixed width so finished_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// SQLite stores results in an interviews table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// opens a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Write(ctx context.Context, res *interview.Result) error {
	var answer sql.NullString
	if res.Answer != nil {
		answer = sql.NullString{String: *res.Answer, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interviews (id, candidate, task, question, answer, score, justification, state, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID.String(), res.Candidate, res.Task, res.Question, answer,
		res.Evaluation.Score, res.Evaluation.Justification, res.State.String(),
		res.StartedAt.UTC().Format(timeLayout), res.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("sqlite: insert interview %s: %w", res.ID, err)
	}
	return nil
}

// Recent returns up to n results, most recently finished first.
func (s *SQLite) Recent(ctx context.Context, n int) ([]interview.Result, error) {
	if n <= 0 {
		n = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate, task, question, answer, score, justification, state, started_at, finished_at
		FROM interviews ORDER BY finished_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query interviews: %w", err)
	}
	defer rows.Close()

	var out []interview.Result
	for rows.Next() {
		var (
			r                 interview.Result
			id, state         string
			answer            sql.NullString
			started, finished string
		)
		if err := rows.Scan(&id, &r.Candidate, &r.Task, &r.Question, &answer,
			&r.Evaluation.Score, &r.Evaluation.Justification, &state, &started, &finished); err != nil {
			return nil, fmt.Errorf("sqlite: scan interview: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlite: interview id %q: %w", id, err)
		}
		if err := r.State.UnmarshalText([]byte(state)); err != nil {
			return nil, fmt.Errorf("sqlite: interview %s: %w", id, err)
		}
		if answer.Valid {
			a := answer.String
			r.Answer = &a
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("sqlite: interview %s started_at: %w", id, err)
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("sqlite: interview %s finished_at: %w", id, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
