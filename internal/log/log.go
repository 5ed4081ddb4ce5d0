// Package log provides centralised audit logging for vault operations.
// Logs are stored in <root>/log/notevault-log.db (excluded from sync) and
// track CLI commands and MCP tool invocations.
//
// Confidentiality rule: entries carry note identifiers, never titles,
// bodies or decrypted content. The log must be safe to read on a machine
// that holds no GPG key.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("note:new", "create").
//		Note(n.ID).
//		Write(err)
//
//	log.Event("vault:search", "search").
//		Detail("count", len(results)).
//		Write(err)
//
// The source parameter follows the format "{area}:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "note:new", "mcp:vault_read"
	Action string // verb: create, read, update, delete, sync, etc.
	NoteID string // note identifier, empty for vault-wide operations

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string
	Detail  map[string]any // operation-specific data, never note content
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call
// [Builder.Write] to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "{area}:{command}" (e.g., "note:new", "sync:run")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:vault_search")
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Note sets the note identifier this operation affects.
func (b *Builder) Note(id string) *Builder {
	b.entry.NoteID = id
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields: result
// counts, repair actions, sync outcomes. Never pass note content.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry, deriving success/failure from err.
//
// Example:
//
//	n, err := v.Create(ctx, title, body)
//	log.Event("note:new", "create").Note(n.ID).Write(err)
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger for a vault root. Safe to call
// multiple times. Errors are returned but callers may choose to ignore
// them (best-effort logging).
func Open(root string) error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath(root)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db, vault: hash(root)}
	return nil
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
