package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var migrationFile = regexp.MustCompile(`^migrations/([0-9]+)_([a-z0-9_]+)\.(up|down)\.sql$`)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// migrationDB is the subset of *pgxpool.Pool the migrator needs.
type migrationDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type migrator struct {
	db         migrationDB
	migrations []migration
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no migration files found")
	}

	index := make(map[int64]*migration)
	for _, p := range paths {
		m := migrationFile.FindStringSubmatch(p)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename: %s", p)
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version in %s: %w", p, err)
		}

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", p, err)
		}
		sqlText := strings.TrimSpace(string(raw))
		if sqlText == "" {
			return nil, fmt.Errorf("empty migration file: %s", p)
		}

		entry, ok := index[version]
		if !ok {
			entry = &migration{Version: version, Name: m[2]}
			index[version] = entry
		} else if entry.Name != m[2] {
			return nil, fmt.Errorf("conflicting names for version %d: %s vs %s", version, entry.Name, m[2])
		}

		dst := &entry.UpSQL
		if m[3] == "down" {
			dst = &entry.DownSQL
		}
		if *dst != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", m[3], version)
		}
		*dst = sqlText
	}

	out := make([]migration, 0, len(index))
	for _, m := range index {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration version %d must include both up and down files", m.Version)
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b migration) int { return cmp.Compare(a.Version, b.Version) })
	return out, nil
}

func (m *migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`)
	return err
}

func (m *migrator) appliedVersions(ctx context.Context) ([]int64, error) {
	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// pending lists migrations not yet recorded in schema_migrations.
func pending(all []migration, applied []int64) []migration {
	var out []migration
	for _, m := range all {
		if !slices.Contains(applied, m.Version) {
			out = append(out, m)
		}
	}
	return out
}

func (m *migrator) up(ctx context.Context) (int, error) {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, mig := range pending(m.migrations, applied) {
		err := m.inTx(ctx, mig.UpSQL, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name)
		if err != nil {
			return n, fmt.Errorf("version %d up: %w", mig.Version, err)
		}
		n++
	}
	return n, nil
}

func (m *migrator) down(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		return 0, errors.New("steps must be > 0")
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}
	slices.Reverse(applied)
	if len(applied) > steps {
		applied = applied[:steps]
	}

	n := 0
	for _, version := range applied {
		i := slices.IndexFunc(m.migrations, func(mig migration) bool { return mig.Version == version })
		if i < 0 {
			return n, fmt.Errorf("cannot find migration source for applied version %d", version)
		}
		if err := m.inTx(ctx, m.migrations[i].DownSQL, `DELETE FROM schema_migrations WHERE version = $1`, version); err != nil {
			return n, fmt.Errorf("version %d down: %w", version, err)
		}
		n++
	}
	return n, nil
}

// inTx runs a migration body and its bookkeeping statement atomically.
func (m *migrator) inTx(ctx context.Context, body, record string, args ...any) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, body); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, record, args...); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit(ctx)
}

func (m *migrator) current(ctx context.Context) (int64, string, error) {
	var version int64
	var name string
	err := m.db.QueryRow(ctx, `SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", nil
	}
	return version, name, err
}
