package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"sort"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrate creates the bookkeeping table if absent, then applies every
// not-yet-applied migration file in lexicographic filename order. Each
// migration runs in its own transaction; a failing migration is rolled back
// and the error is returned so the process can fail loudly.
func (s *Store) migrate(ctx context.Context) error {
	const bookkeeping = `
create table if not exists __migrations (
    name        text primary key,
    executed_at text not null
);
`
	if _, err := s.db.ExecContext(ctx, bookkeeping); err != nil {
		return fmt.Errorf("create __migrations: %w", err)
	}

	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := s.migrationApplied(ctx, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		script, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if err := s.applyMigration(ctx, name, string(script)); err != nil {
			return err
		}
		log.Printf("[info] operation=migrate message=applied %s", name)
	}

	return nil
}

func (s *Store) migrationApplied(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`select count(*) from __migrations where name = ?;`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}
	return count > 0, nil
}

func (s *Store) applyMigration(ctx context.Context, name, script string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, script); err != nil {
		tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}

	executedAt := time.Now().UTC().Format(timeFormat)
	if _, err := tx.ExecContext(ctx,
		`insert into __migrations (name, executed_at) values (?, ?);`, name, executedAt); err != nil {
		tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}
