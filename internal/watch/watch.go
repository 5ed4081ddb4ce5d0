// Package watch keeps the index current while plain notes are edited by
// external tools. Only the plain mirror is watched: encrypted notes change
// exclusively through vault commands, which index as they write, but a
// plain note is an ordinary markdown file that any editor can touch.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jpl-au/notevault/internal/note"
	"github.com/jpl-au/notevault/internal/progress"
	"github.com/jpl-au/notevault/internal/storage"
	"github.com/jpl-au/notevault/internal/vault"
)

// debounce collapses editor write bursts (most editors write, truncate and
// rename in quick succession) into a single reindex per file.
const debounce = 300 * time.Millisecond

// Run watches the vault's plain mirror until ctx is cancelled. New month
// directories are added to the watch list as they appear.
func Run(ctx context.Context, v *vault.Vault) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := filepath.Join(v.Root(), storage.PlainDir)
	if err := os.MkdirAll(root, 0o700); err != nil {
		return err
	}
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	progress.Status("watching %s", root)

	// pending holds ids whose latest event has not settled yet.
	pending := make(map[string]time.Time)
	tick := time.NewTicker(debounce)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			progress.Status("watcher stopped")
			return nil

		case <-tick.C:
			now := time.Now()
			for id, at := range pending {
				if now.Sub(at) < debounce {
					continue
				}
				delete(pending, id)
				settle(ctx, v, id)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						progress.Status("watch new dir failed: %v", addErr)
					}
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			id, idErr := note.IDFromPath(filepath.ToSlash(ev.Name))
			if idErr != nil {
				continue
			}
			pending[id] = time.Now()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			progress.Status("watch error: %v", watchErr)
		}
	}
}

// settle reconciles one note id with the index after its events quieted:
// reindex if the file exists, deindex if it was removed.
func settle(ctx context.Context, v *vault.Vault, id string) {
	err := v.IndexOne(ctx, id)
	if err == nil {
		progress.Status("indexed %s", id)
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		if err := v.Deindex(ctx, id); err != nil {
			progress.Status("deindex %s failed: %v", id, err)
			return
		}
		progress.Status("removed %s", id)
		return
	}
	progress.Status("index %s failed: %v", id, err)
}

// addDirsRecursive adds dir and every subdirectory to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
