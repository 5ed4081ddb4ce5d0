// Package index implements the metadata/search index: one durable row per
// note holding frontmatter fields plus enough searchable text to answer
// listing and full-text queries without decrypting anything.
//
// The index is a cache, never authoritative. Every row is reconstructable
// by scanning the note store and invoking the encryption gateway, so losing
// the database file loses nothing. Confidentiality rule: for encrypted
// notes the searchable text is title and tags only (or a short snippet the
// user explicitly opted into at build time); bodies are never persisted
// unencrypted.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrCorrupt indicates the database failed an integrity check or has an
	// unexpected schema. Recovery is a full rebuild, never manual surgery.
	ErrCorrupt = errors.New("index corrupt")
)

// Row is the projection of one note held by the index.
type Row struct {
	ID             string
	Title          string
	Tags           []string
	Created        time.Time
	Modified       time.Time
	IsPlain        bool
	SearchableText string
}

// DB is the SQLite-backed index.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the index database at path.
//
// WAL mode lets the MCP server read while a CLI command writes; the busy
// timeout papers over the brief lock during a rebuild swap.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`PRAGMA synchronous=NORMAL`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure index: %w", err)
		}
	}

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// migrate creates the schema. IF NOT EXISTS keeps it idempotent; the index
// carries no migration history because any schema mismatch is resolved by
// deleting the file and rebuilding.
func (d *DB) migrate() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			tags            TEXT NOT NULL DEFAULT '',
			created         TEXT NOT NULL,
			modified        TEXT NOT NULL,
			is_plain        INTEGER NOT NULL DEFAULT 0,
			searchable_text TEXT NOT NULL DEFAULT ''
		);
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			title, tags, searchable_text,
			content='notes', content_rowid='rowid'
		);
		CREATE TRIGGER IF NOT EXISTS notes_ai AFTER INSERT ON notes BEGIN
			INSERT INTO notes_fts(rowid, title, tags, searchable_text)
			VALUES (new.rowid, new.title, new.tags, new.searchable_text);
		END;
		CREATE TRIGGER IF NOT EXISTS notes_ad AFTER DELETE ON notes BEGIN
			INSERT INTO notes_fts(notes_fts, rowid, title, tags, searchable_text)
			VALUES ('delete', old.rowid, old.title, old.tags, old.searchable_text);
		END;
		CREATE TRIGGER IF NOT EXISTS notes_au AFTER UPDATE ON notes BEGIN
			INSERT INTO notes_fts(notes_fts, rowid, title, tags, searchable_text)
			VALUES ('delete', old.rowid, old.title, old.tags, old.searchable_text);
			INSERT INTO notes_fts(rowid, title, tags, searchable_text)
			VALUES (new.rowid, new.title, new.tags, new.searchable_text);
		END;
		CREATE INDEX IF NOT EXISTS idx_notes_modified ON notes(modified);
		CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created);
	`)
	if err != nil {
		return fmt.Errorf("create index schema: %w", err)
	}
	return nil
}

// Check runs a quick integrity check, mapping failure to ErrCorrupt so the
// caller knows the remedy is a rebuild.
func (d *DB) Check(ctx context.Context) error {
	var result string
	err := d.db.QueryRowContext(ctx, `PRAGMA quick_check`).Scan(&result)
	if err != nil || result != "ok" {
		return fmt.Errorf("%w: quick_check=%q err=%v", ErrCorrupt, result, err)
	}
	return nil
}

// Upsert inserts or replaces the row for its id.
func (d *DB) Upsert(ctx context.Context, r Row) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, tags, created, modified, is_plain, searchable_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, tags=excluded.tags,
			created=excluded.created, modified=excluded.modified,
			is_plain=excluded.is_plain, searchable_text=excluded.searchable_text`,
		r.ID, r.Title, joinTags(r.Tags),
		r.Created.UTC().Format(time.RFC3339), r.Modified.UTC().Format(time.RFC3339),
		boolInt(r.IsPlain), r.SearchableText)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", r.ID, err)
	}
	return nil
}

// Remove deletes the row for id. Removing an unindexed id is not an error;
// the index converges on the store, it does not police it.
func (d *DB) Remove(ctx context.Context, id string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

// Get returns the row for id, or ErrNotIndexed.
func (d *DB) Get(ctx context.Context, id string) (*Row, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, title, tags, created, modified, is_plain, searchable_text
		FROM notes WHERE id = ?`, id)
	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotIndexed
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return &r, nil
}

// ErrNotIndexed indicates no row exists for the requested id.
var ErrNotIndexed = errors.New("note not indexed")

// Count returns the number of indexed notes.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// Tags returns every distinct tag with its note count, most used first.
func (d *DB) Tags(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT tags FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range strings.Fields(tags) {
			counts[t]++
		}
	}
	return counts, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows so one scan function serves both.
type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (Row, error) {
	var r Row
	var tags, created, modified string
	var plain int
	if err := sc.Scan(&r.ID, &r.Title, &tags, &created, &modified, &plain, &r.SearchableText); err != nil {
		return r, err
	}
	r.Tags = splitTags(tags)
	r.Created, _ = time.Parse(time.RFC3339, created)
	r.Modified, _ = time.Parse(time.RFC3339, modified)
	r.IsPlain = plain != 0
	return r, nil
}

// joinTags stores tags space-separated; tags themselves never contain
// whitespace (validated at the CLI boundary).
func joinTags(tags []string) string {
	return strings.Join(tags, " ")
}

func splitTags(s string) []string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return nil
	}
	return f
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
