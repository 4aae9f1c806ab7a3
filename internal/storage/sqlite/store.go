// Package sqlite implements the projects persistence adapter over an
// embedded, file-backed SQLite database using the pure-Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/projectdesk/projectdesk-backend/internal/projects"
)

// timeFormat is the canonical storage format for timestamps. Stored as text
// so round-tripping through the driver is unambiguous.
const timeFormat = time.RFC3339Nano

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file, enables WAL and foreign keys,
// and applies any pending migrations. A migration failure is returned to the
// caller, which is expected to treat it as fatal.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single shared connection serializes writes and keeps the
	// last-insert-id bookkeeping on one handle.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) List(ctx context.Context) ([]projects.Project, error) {
	const q = `
select id, name, created_at, updated_at
from projects
order by id asc;
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]projects.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, name string) (*projects.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, projects.ErrInvalidName
	}

	now := time.Now().UTC()
	const q = `
insert into projects (name, created_at, updated_at)
values (?, ?, ?);
`
	res, err := s.db.ExecContext(ctx, q, name, now.Format(timeFormat), now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert project id: %w", err)
	}

	return s.get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, upd projects.Update) (*projects.Project, error) {
	if upd.Empty() {
		return nil, projects.ErrNoFields
	}

	name := strings.TrimSpace(*upd.Name)
	if name == "" {
		return nil, projects.ErrInvalidName
	}

	now := time.Now().UTC()
	const q = `
update projects
set name = ?, updated_at = ?
where id = ?;
`
	res, err := s.db.ExecContext(ctx, q, name, now.Format(timeFormat), id)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	} else if n == 0 {
		return nil, projects.ErrNotFound
	}

	return s.get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from projects where id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete project: %w", err)
	} else if n == 0 {
		return projects.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, id int64) (*projects.Project, error) {
	const q = `
select id, name, created_at, updated_at
from projects
where id = ?;
`
	p, err := scanProject(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, projects.ErrNotFound
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*projects.Project, error) {
	var (
		p       projects.Project
		created string
		updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}

	var err error
	if p.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(timeFormat, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}
