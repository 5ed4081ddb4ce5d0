// rebuild.go implements the disaster-recovery path: truncate and repopulate
// the whole index from the note store. Decryption is the slow step, so
// notes load on a bounded worker pool; the database swap at the end is a
// single transaction over a shadow table, so a concurrent reader sees the
// pre-rebuild rows or the post-rebuild rows, never a half-populated table.

package index

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// loadWorkers bounds parallel decryption during a rebuild. gpg-agent
// serialises passphrase access anyway; more workers just pile up processes.
const loadWorkers = 4

// Item identifies one note to load during a rebuild.
type Item struct {
	ID    string
	Plain bool
}

// LoadFunc produces the index row for an item, decrypting if necessary.
type LoadFunc func(ctx context.Context, it Item) (Row, error)

// Failure records one note that could not be indexed.
type Failure struct {
	ID  string
	Err error
}

// Result summarises a rebuild.
type Result struct {
	Indexed  int
	Failures []Failure
}

// Rebuild replaces the entire table with rows loaded from items. A note
// that fails to load (corrupt ciphertext, wrong key) is recorded and
// skipped: one bad note must not make the rest of the corpus unsearchable.
// The swap is atomic; on any database error the existing rows are kept.
func (d *DB) Rebuild(ctx context.Context, items []Item, load LoadFunc) (Result, error) {
	var (
		mu   sync.Mutex
		rows []Row
		res  Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)
	for _, it := range items {
		g.Go(func() error {
			r, err := load(gctx, it)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures = append(res.Failures, Failure{ID: it.ID, Err: err})
				return nil // contained: keep scanning
			}
			rows = append(rows, r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	// Deterministic insert order so back-to-back rebuilds of an unchanged
	// store produce identical tables.
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	sort.Slice(res.Failures, func(i, j int) bool { return res.Failures[i].ID < res.Failures[j].ID })

	if err := d.swap(ctx, rows); err != nil {
		return res, err
	}
	res.Indexed = len(rows)
	return res, nil
}

// swap populates a shadow table and moves its rows into notes inside one
// transaction. The FTS triggers on notes keep the search table in step.
func (d *DB) swap(ctx context.Context, rows []Row) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.ExecContext(ctx, `
		CREATE TEMP TABLE IF NOT EXISTS notes_shadow (
			id TEXT PRIMARY KEY, title TEXT, tags TEXT,
			created TEXT, modified TEXT, is_plain INTEGER, searchable_text TEXT
		);
		DELETE FROM notes_shadow`); err != nil {
		return fmt.Errorf("create shadow table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notes_shadow (id, title, tags, created, modified, is_plain, searchable_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare shadow insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Title, joinTags(r.Tags),
			r.Created.UTC().Format(time.RFC3339), r.Modified.UTC().Format(time.RFC3339),
			boolInt(r.IsPlain), r.SearchableText); err != nil {
			return fmt.Errorf("populate shadow table: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("truncate notes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO notes (id, title, tags, created, modified, is_plain, searchable_text)
		SELECT id, title, tags, created, modified, is_plain, searchable_text
		FROM notes_shadow ORDER BY id`); err != nil {
		return fmt.Errorf("swap in rebuilt rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM notes_shadow`); err != nil {
		return fmt.Errorf("clear shadow table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}
