// indexing.go owns the searchable-text policy and index reconstruction.
// The policy is the vault's central confidentiality decision: what part of
// an encrypted note may live unencrypted in the index. Title and tags
// always; a leading body snippet only when the user opted in.

package vault

import (
	"context"
	"strings"

	"github.com/jpl-au/notevault/internal/index"
	"github.com/jpl-au/notevault/internal/log"
	"github.com/jpl-au/notevault/internal/note"
	"github.com/jpl-au/notevault/internal/progress"
)

// rowFor projects a note into its index row under the searchable-text
// policy. Plain notes index their full body; they are world-readable on
// disk already, so the index adds no exposure.
func (v *Vault) rowFor(n *note.Note) index.Row {
	parts := []string{n.Title, strings.Join(n.Tags, " ")}
	switch {
	case n.IsPlain:
		parts = append(parts, n.Body)
	case v.cfg.SnippetsEnabled():
		parts = append(parts, snippet(n.Body, v.cfg.SnippetLength()))
	}
	text := strings.Join(parts, " ")
	return index.Row{
		ID:             n.ID,
		Title:          n.Title,
		Tags:           n.Tags,
		Created:        n.Created,
		Modified:       n.Modified,
		IsPlain:        n.IsPlain,
		SearchableText: strings.TrimSpace(text),
	}
}

// snippet returns the first limit runes of body, cut at a word boundary.
func snippet(body string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	s := string(runes[:limit])
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	return s
}

// Reindex rebuilds the entire index from the note store. Notes that fail
// to decrypt are logged and skipped so one corrupt blob cannot take search
// down for the whole vault.
func (v *Vault) Reindex(ctx context.Context) (index.Result, error) {
	entries, err := v.store.List(true)
	if err != nil {
		return index.Result{}, err
	}

	items := make([]index.Item, len(entries))
	for i, e := range entries {
		items[i] = index.Item{ID: e.ID, Plain: e.Plain}
	}

	p := progress.New("reindexing", len(items))
	res, err := v.idx.Rebuild(ctx, items, func(ctx context.Context, it index.Item) (index.Row, error) {
		defer p.Increment()
		n, loadErr := v.Get(ctx, it.ID)
		if loadErr != nil {
			return index.Row{}, loadErr
		}
		return v.rowFor(n), nil
	})
	p.Done()

	for _, f := range res.Failures {
		log.Event("index:rebuild", "skip").Note(f.ID).Write(f.Err)
	}
	return res, err
}

// IndexOne refreshes the index row for a single note from its file. Used
// by the watcher when a plain note changes under an external editor.
func (v *Vault) IndexOne(ctx context.Context, id string) error {
	n, err := v.Get(ctx, id)
	if err != nil {
		return err
	}
	return v.idx.Upsert(ctx, v.rowFor(n))
}

// Deindex drops a note's index row without touching its file.
func (v *Vault) Deindex(ctx context.Context, id string) error {
	return v.idx.Remove(ctx, id)
}

// Search queries the index.
func (v *Vault) Search(ctx context.Context, f index.Filter) ([]index.Row, error) {
	return v.idx.Query(ctx, f)
}

// CheckIndex verifies index integrity. An index.ErrCorrupt return means
// the remedy is Reindex, not repair.
func (v *Vault) CheckIndex(ctx context.Context) error {
	return v.idx.Check(ctx)
}
