// Package catalogindex maintains a SQLite secondary index over the
// workflows held in a workflow.Store. The authoritative workflow
// definitions always live in memory (workflow.Store); this index exists
// purely so a host process can answer "what workflows exist and where did
// they come from" with a SQL query instead of holding the Store's lock,
// and so that catalog listings survive a process restart without
// re-walking every configured directory first. It is modeled on the
// teacher's graph/store SQLite store: single-file WAL-mode database,
// one writer at a time, JSON-serialized payloads.
package catalogindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/agentnav/navigator/workflow"
)

// Index is a SQLite-backed secondary index of workflow summaries. It is
// safe for concurrent use; SQLite itself serializes writers.
type Index struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	path   string
}

// Open creates or opens a SQLite index at path. ":memory:" is a valid
// path for tests or ephemeral processes.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalogindex: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("catalogindex: %s: %w", pragma, err)
		}
	}

	idx := &Index{db: db, path: path}
	if err := idx.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS workflows (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL,
			step_count  INTEGER NOT NULL,
			source      TEXT NOT NULL,
			source_root TEXT NOT NULL,
			definition  TEXT NOT NULL,
			indexed_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := idx.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("catalogindex: create workflows table: %w", err)
	}
	if _, err := idx.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_workflows_source ON workflows(source)"); err != nil {
		return fmt.Errorf("catalogindex: create source index: %w", err)
	}
	return nil
}

// Record upserts one workflow definition's index row. catalog.Watcher's
// RefreshOnce calls it for each definition it loads; workflow.Store.Load
// does not call it. Record never influences Store.Get/List — it is
// read-path sugar, not the source of truth.
func (idx *Index) Record(ctx context.Context, def *workflow.Definition) error {
	idx.mu.RLock()
	if idx.closed {
		idx.mu.RUnlock()
		return fmt.Errorf("catalogindex: closed")
	}
	idx.mu.RUnlock()

	payload, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("catalogindex: marshal definition %s: %w", def.ID, err)
	}

	query := `
		INSERT INTO workflows (id, name, description, step_count, source, source_root, definition)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name        = excluded.name,
			description = excluded.description,
			step_count  = excluded.step_count,
			source      = excluded.source,
			source_root = excluded.source_root,
			definition  = excluded.definition,
			indexed_at  = CURRENT_TIMESTAMP
	`
	_, err = idx.db.ExecContext(ctx, query,
		def.ID, def.Name, def.Description, len(def.Nodes), string(def.Source), def.SourceRoot, string(payload))
	if err != nil {
		return fmt.Errorf("catalogindex: record %s: %w", def.ID, err)
	}
	return nil
}

// Forget removes a workflow's index row, e.g. when its backing catalog
// file has been deleted from disk.
func (idx *Index) Forget(ctx context.Context, id string) error {
	idx.mu.RLock()
	if idx.closed {
		idx.mu.RUnlock()
		return fmt.Errorf("catalogindex: closed")
	}
	idx.mu.RUnlock()

	_, err := idx.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("catalogindex: forget %s: %w", id, err)
	}
	return nil
}

// Row is one indexed workflow summary, plus the JSON-encoded definition
// that produced it — Rehydrate decodes that payload back into a
// *workflow.Definition for Restore.
type Row struct {
	ID          string
	Name        string
	Description string
	StepCount   int
	Source      string
	SourceRoot  string
	definition  string
}

// List returns every indexed row, optionally narrowed to one source
// ("catalog", "project", "external"); an empty source returns all rows.
func (idx *Index) List(ctx context.Context, source string) ([]Row, error) {
	idx.mu.RLock()
	if idx.closed {
		idx.mu.RUnlock()
		return nil, fmt.Errorf("catalogindex: closed")
	}
	idx.mu.RUnlock()

	query := "SELECT id, name, description, step_count, source, source_root, definition FROM workflows"
	args := []interface{}{}
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY id"

	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalogindex: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.StepCount, &r.Source, &r.SourceRoot, &r.definition); err != nil {
			return nil, fmt.Errorf("catalogindex: scan row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalogindex: iterate rows: %w", err)
	}
	return result, nil
}

// Rehydrate decodes a Row's stored definition JSON back into a
// *workflow.Definition, for Restore or cold-start recovery.
func (r Row) Rehydrate() (*workflow.Definition, error) {
	var def workflow.Definition
	if err := json.Unmarshal([]byte(r.definition), &def); err != nil {
		return nil, fmt.Errorf("catalogindex: rehydrate %s: %w", r.ID, err)
	}
	return &def, nil
}

// Restore loads every indexed row back into store, skipping Validate
// failures (a row written by an older, since-relaxed validator should
// not block startup; it simply won't appear in store until its source
// file is re-loaded and re-validated). Restore is a convenience for
// processes that want catalog listings available before the first
// directory walk completes.
func (idx *Index) Restore(ctx context.Context, store *workflow.Store) (int, error) {
	rows, err := idx.List(ctx, "")
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, r := range rows {
		def, err := r.Rehydrate()
		if err != nil {
			continue
		}
		if err := store.Load(def, workflow.Source(r.Source), r.SourceRoot); err != nil {
			continue
		}
		restored++
	}
	return restored, nil
}

// Close closes the underlying database connection. Safe to call more
// than once.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	return idx.db.Close()
}
