package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// sqliteAdapter stores the document in an events table. SaveAll keeps
// the snapshot semantics of the file backend: replace everything in
// one transaction.
type sqliteAdapter struct {
	db  *sql.DB
	log *zap.Logger
}

func openSQLite(ctx context.Context, path string, log *zap.Logger) (Adapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine; keep one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &sqliteAdapter{db: db, log: log}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// runMigrations executes embedded SQL files in alphabetical order,
// each in its own transaction.
func runMigrations(ctx context.Context, db *sql.DB) error {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		sqlBytes, err := fs.ReadFile(migrationsFS, "migrations/"+e.Name())
		if err != nil {
			return err
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (a *sqliteAdapter) SaveAll(ctx context.Context, doc Document) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for tenant, entries := range doc {
		for name, rec := range entries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO events (tenant_id, boss, killed_at, spawns_at, notify_target, prealerted)
				VALUES (?, ?, ?, ?, ?, ?)`,
				tenant, name, rec.KilledAt, rec.SpawnsAt, rec.NotifyTarget, boolToInt(rec.PreAlerted),
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}

func (a *sqliteAdapter) LoadAll(ctx context.Context) (Document, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT tenant_id, boss, killed_at, spawns_at, notify_target, prealerted
		FROM events`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doc := Document{}
	for rows.Next() {
		var (
			tenant, name  string
			rec           Record
			prealertedInt int
		)
		if err := rows.Scan(&tenant, &name, &rec.KilledAt, &rec.SpawnsAt, &rec.NotifyTarget, &prealertedInt); err != nil {
			a.log.Warn("skipping unreadable event row", zap.Error(err))
			continue
		}
		rec.PreAlerted = prealertedInt != 0
		if doc[tenant] == nil {
			doc[tenant] = map[string]Record{}
		}
		doc[tenant][name] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *sqliteAdapter) Close() error { return a.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
