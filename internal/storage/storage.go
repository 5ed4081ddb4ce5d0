// Package storage owns the on-disk note layout: encrypted blobs under
// <root>/notes and the plain mirror under <root>/plain, both shaped
// YYYY/MM/<id>.md[.gpg]. It is pure filesystem ownership; encryption and
// indexing live elsewhere.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jpl-au/notevault/internal/note"
)

// ErrNotFound indicates no on-disk file exists for the requested id.
var ErrNotFound = errors.New("note not found")

const (
	// NotesDir is the encrypted subtree name under the vault root.
	NotesDir = "notes"
	// PlainDir is the plain-mirror subtree name under the vault root.
	PlainDir = "plain"
)

// Store reads and writes note files under a vault root.
type Store struct {
	root string
}

// New returns a store rooted at dir. The directory is created lazily on
// first write, so opening a store never mutates the filesystem.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the vault root directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the absolute path for an id. Exactly one file represents a
// given id; plain selects which subtree that file lives in.
func (s *Store) Path(id string, plain bool) (string, error) {
	rel, err := note.RelPath(id, plain)
	if err != nil {
		return "", err
	}
	sub := NotesDir
	if plain {
		sub = PlainDir
	}
	return filepath.Join(s.root, sub, filepath.FromSlash(rel)), nil
}

// Put writes data for id atomically: write to a temp file in the target
// directory, then rename. A concurrent reader sees either the old content
// or the new, never a partial file.
func (s *Store) Put(id string, data []byte, plain bool) error {
	p, err := s.Path(id, plain)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create note directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "."+id+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Get reads the file for id. The plain flag selects the subtree, matching
// the note's primary representation.
func (s *Store) Get(id string, plain bool) ([]byte, error) {
	p, err := s.Path(id, plain)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read note %s: %w", id, err)
	}
	return data, nil
}

// Delete removes the file for id. Missing files map to ErrNotFound so
// callers can distinguish "already gone" from I/O failure.
func (s *Store) Delete(id string, plain bool) error {
	p, err := s.Path(id, plain)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// Entry describes one on-disk note file found by a scan.
type Entry struct {
	ID    string
	Plain bool
}

// List walks the notes subtree (and, when includePlain is set, the plain
// mirror) and returns every id found, newest first. Files whose names do
// not encode a valid identifier are skipped; the store never errors a whole
// scan for one stray file.
func (s *Store) List(includePlain bool) ([]Entry, error) {
	var entries []Entry

	collect := func(sub string, plain bool, suffix string) error {
		dir := filepath.Join(s.root, sub)
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, suffix) {
				return nil
			}
			id, idErr := note.IDFromPath(filepath.ToSlash(p))
			if idErr != nil {
				return nil
			}
			entries = append(entries, Entry{ID: id, Plain: plain})
			return nil
		})
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := collect(NotesDir, false, ".md.gpg"); err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}
	if includePlain {
		if err := collect(PlainDir, true, ".md"); err != nil {
			return nil, fmt.Errorf("scan plain mirror: %w", err)
		}
	}

	// Identifiers are timestamps, so lexical descending is newest first.
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries, nil
}

// Exists reports whether an on-disk file represents id in either subtree.
// The second return reports whether that representation is plain.
func (s *Store) Exists(id string) (bool, bool) {
	if p, err := s.Path(id, false); err == nil {
		if _, err := os.Stat(p); err == nil {
			return true, false
		}
	}
	if p, err := s.Path(id, true); err == nil {
		if _, err := os.Stat(p); err == nil {
			return true, true
		}
	}
	return false, false
}
