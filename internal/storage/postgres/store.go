// Package postgres implements the projects persistence adapter over a hosted
// PostgreSQL service via pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectdesk/projectdesk-backend/internal/projects"
)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the hosted database and pings it, failing fast if the
// service is unreachable. The hosted service owns schema evolution; the
// adapter only creates the projects table if missing, as a convenience for
// fresh databases.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	// Fail fast
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	const schema = `
create table if not exists projects (
    id         bigint generated always as identity primary key,
    name       text not null,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) List(ctx context.Context) ([]projects.Project, error) {
	const q = `
select id, name, created_at, updated_at
from projects
order by id asc;
`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]projects.Project, 0, 16)
	for rows.Next() {
		var p projects.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, name string) (*projects.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, projects.ErrInvalidName
	}

	const q = `
insert into projects (name)
values ($1)
returning id, name, created_at, updated_at;
`
	var p projects.Project
	err := s.pool.QueryRow(ctx, q, name).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &p, nil
}

func (s *Store) Update(ctx context.Context, id int64, upd projects.Update) (*projects.Project, error) {
	if upd.Empty() {
		return nil, projects.ErrNoFields
	}

	name := strings.TrimSpace(*upd.Name)
	if name == "" {
		return nil, projects.ErrInvalidName
	}

	const q = `
update projects
set name = $2, updated_at = now()
where id = $1
returning id, name, created_at, updated_at;
`
	var p projects.Project
	err := s.pool.QueryRow(ctx, q, id, name).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, projects.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &p, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	ct, err := s.pool.Exec(ctx, `delete from projects where id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return projects.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
