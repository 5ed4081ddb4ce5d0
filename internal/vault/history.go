// history.go exposes per-note version history through the repository.
// Revisions of an encrypted note are decrypted before diffing; the
// ciphertext changes completely on every save, so only plaintext diffs
// mean anything.

package vault

import (
	"context"
	"fmt"

	"github.com/jpl-au/notevault/internal/diff"
	"github.com/jpl-au/notevault/internal/note"
	"github.com/jpl-au/notevault/internal/storage"
	"github.com/jpl-au/notevault/internal/syncer"
	"github.com/jpl-au/notevault/internal/vcs"
)

// Sync runs one full sync cycle.
func (v *Vault) Sync(ctx context.Context) (syncer.Result, error) {
	return v.sync.Sync(ctx)
}

// SyncState returns the sync engine's current phase.
func (v *Vault) SyncState() syncer.State {
	return v.sync.State()
}

// History lists the revisions of a note, newest first.
func (v *Vault) History(ctx context.Context, id string, limit int) ([]vcs.Revision, error) {
	rel, err := v.notePath(id)
	if err != nil {
		return nil, err
	}
	return v.vc.FileLog(ctx, rel, limit)
}

// DiffRevisions returns the plaintext diff of a note between two
// revisions. "WORKTREE" as the new revision diffs against the current
// note content.
func (v *Vault) DiffRevisions(ctx context.Context, id, oldRev, newRev string) (diff.Result, error) {
	rel, err := v.notePath(id)
	if err != nil {
		return diff.Result{}, err
	}

	oldBody, err := v.bodyAt(ctx, rel, oldRev, id)
	if err != nil {
		return diff.Result{}, err
	}

	var newBody string
	if newRev == "" || newRev == "WORKTREE" {
		n, err := v.Get(ctx, id)
		if err != nil {
			return diff.Result{}, err
		}
		newBody = n.Body
		newRev = "current"
	} else {
		newBody, err = v.bodyAt(ctx, rel, newRev, id)
		if err != nil {
			return diff.Result{}, err
		}
	}

	return diff.Compute(oldBody, newBody, abbrev(oldRev), abbrev(newRev)), nil
}

// bodyAt loads a note body from a revision, decrypting if the note lives
// in the encrypted subtree.
func (v *Vault) bodyAt(ctx context.Context, rel, rev, id string) (string, error) {
	data, err := v.vc.FileAt(ctx, rev, rel)
	if err != nil {
		return "", err
	}
	_, plain := v.store.Exists(id)
	if !plain {
		data, err = v.enc.Decrypt(ctx, data)
		if err != nil {
			return "", fmt.Errorf("revision %s: %w", abbrev(rev), err)
		}
	}
	n, err := note.Parse(data)
	if err != nil {
		return "", fmt.Errorf("revision %s: %w", abbrev(rev), err)
	}
	return n.Body, nil
}

// notePath returns the repository-relative path of a note's file.
func (v *Vault) notePath(id string) (string, error) {
	exists, plain := v.store.Exists(id)
	if !exists {
		return "", fmt.Errorf("note not found: %s", id)
	}
	rel, err := note.RelPath(id, plain)
	if err != nil {
		return "", err
	}
	if plain {
		return storage.PlainDir + "/" + rel, nil
	}
	return storage.NotesDir + "/" + rel, nil
}

func abbrev(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}
