// notes.go implements note lifecycle: create, read, update, delete. Every
// mutation follows the same sequence: write the file, update the index,
// then kick the background sync if enabled. The index update may lag the
// file on a crash; reindex converges them, so the file write is the only
// step that must not be lost.

package vault

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jpl-au/notevault/internal/gpg"
	"github.com/jpl-au/notevault/internal/note"
	"github.com/jpl-au/notevault/internal/storage"
)

// CreateOptions configures note creation.
type CreateOptions struct {
	Tags      []string
	Plain     bool // store unencrypted in the plain mirror
	SourceURL string
	ClippedAt time.Time
}

// Create writes a new note and indexes it. Identifiers are second-granular
// timestamps; two notes created within the same second get consecutive ids
// by bumping the creation time.
func (v *Vault) Create(ctx context.Context, title, body string, opts CreateOptions) (*note.Note, error) {
	created := time.Now()
	for {
		if exists, _ := v.store.Exists(note.IDFromTime(created)); !exists {
			break
		}
		created = created.Add(time.Second)
	}

	n := note.New(title, body, created)
	n.Tags = opts.Tags
	n.IsPlain = opts.Plain
	n.SourceURL = opts.SourceURL
	n.ClippedAt = opts.ClippedAt

	if err := v.save(ctx, n); err != nil {
		return nil, err
	}
	if err := v.idx.Upsert(ctx, v.rowFor(n)); err != nil {
		return n, err
	}
	v.autoSync(ctx)
	return n, nil
}

// Get loads and decodes a note by id, whichever subtree holds it.
func (v *Vault) Get(ctx context.Context, id string) (*note.Note, error) {
	if _, err := note.ParseID(id); err != nil {
		return nil, err
	}
	exists, plain := v.store.Exists(id)
	if !exists {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	data, err := v.store.Get(id, plain)
	if err != nil {
		return nil, err
	}
	if !plain {
		data, err = v.enc.Decrypt(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("note %s: %w", id, err)
		}
	}

	n, err := note.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", id, err)
	}
	n.IsPlain = plain
	return n, nil
}

// Exists reports whether a note's file is present and whether it lives
// in the plain mirror. Nothing is read or decrypted.
func (v *Vault) Exists(id string) (found, plain bool) {
	return v.store.Exists(id)
}

// Update persists a modified note and refreshes its index row.
func (v *Vault) Update(ctx context.Context, n *note.Note) error {
	n.Touch()
	if err := v.save(ctx, n); err != nil {
		return err
	}
	if err := v.idx.Upsert(ctx, v.rowFor(n)); err != nil {
		return err
	}
	v.autoSync(ctx)
	return nil
}

// Delete removes a note's file and index row.
func (v *Vault) Delete(ctx context.Context, id string) error {
	exists, plain := v.store.Exists(id)
	if !exists {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err := v.store.Delete(id, plain); err != nil {
		return err
	}
	if err := v.idx.Remove(ctx, id); err != nil {
		return err
	}
	v.autoSync(ctx)
	return nil
}

// save encodes the note and writes it to its subtree. Encryption happens
// here and nowhere else on the write path.
func (v *Vault) save(ctx context.Context, n *note.Note) error {
	data, err := n.Marshal()
	if err != nil {
		return err
	}
	if n.IsPlain {
		// The plain mirror still gets sanitised content so a later
		// "encrypt this note" conversion cannot change the bytes.
		return v.store.Put(n.ID, []byte(gpg.Sanitize(string(data))), true)
	}

	ciphertext, err := v.enc.Encrypt(ctx, data)
	if err != nil {
		return fmt.Errorf("note %s: %w", n.ID, err)
	}
	return v.store.Put(n.ID, ciphertext, false)
}

// autoSyncTimeout bounds the post-mutation sync so a wedged network cannot
// hang a CLI command on its way out.
const autoSyncTimeout = 30 * time.Second

// autoSync runs a bounded sync after a mutation when enabled. Failures are
// reported, not returned: the note is already safe on disk and the next
// sync retries.
func (v *Vault) autoSync(ctx context.Context) {
	if !v.cfg.AutoSyncEnabled() {
		return
	}
	if _, err := v.sync.SyncWithTimeout(ctx, autoSyncTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "notevault: auto-sync failed: %v\n", err)
	}
}
