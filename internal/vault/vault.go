// Package vault composes the storage, encryption, index and sync layers
// into the operations the CLI and MCP server expose. The layering rule
// runs one way: vault calls down into the layers, the layers never call
// each other sideways. Storage knows files, gpg knows encryption, index
// knows search, syncer knows replication; vault is the only place that
// knows all four.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpl-au/notevault/internal/config"
	"github.com/jpl-au/notevault/internal/gpg"
	"github.com/jpl-au/notevault/internal/index"
	"github.com/jpl-au/notevault/internal/progress"
	"github.com/jpl-au/notevault/internal/storage"
	"github.com/jpl-au/notevault/internal/syncer"
	"github.com/jpl-au/notevault/internal/vcs"
	gitvcs "github.com/jpl-au/notevault/internal/vcs/git"
)

// IndexFileName is the search index database under the vault root.
const IndexFileName = "notes.db"

// Vault is an open note vault.
type Vault struct {
	root  string
	cfg   *config.Config
	store *storage.Store
	idx   *index.DB
	enc   gpg.Encryptor
	vc    vcs.VersionControl
	sync  *syncer.Syncer
}

// Open opens the vault at root. The index database is created on demand;
// everything else is lazy, so Open succeeds on a vault that has not been
// initialised yet and commands report what is missing.
func Open(root string) (*Vault, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create vault root: %w", err)
	}
	idx, err := index.Open(filepath.Join(root, IndexFileName))
	if err != nil {
		return nil, err
	}

	v := &Vault{
		root:  root,
		cfg:   cfg,
		store: storage.New(root),
		idx:   idx,
		enc:   gpg.New(cfg.GPGKey),
		vc:    gitvcs.New(root),
	}
	v.sync = syncer.New(v.vc, cfg.Git.Remote, cfg.Branch())
	v.sync.Report = progress.Status
	v.sync.OnPulled = func(ctx context.Context) error {
		_, err := v.Reindex(ctx)
		return err
	}
	return v, nil
}

// Close releases the vault's resources.
func (v *Vault) Close() error {
	return v.idx.Close()
}

// Root returns the vault root directory.
func (v *Vault) Root() string { return v.root }

// Config returns the vault configuration.
func (v *Vault) Config() *config.Config { return v.cfg }

// Index exposes the search index for read-side queries.
func (v *Vault) Index() *index.DB { return v.idx }

// InitOptions configures vault initialisation.
type InitOptions struct {
	GPGKey string
	Remote string
}

// Init creates the vault layout, writes config, and bootstraps the
// repository. When the remote already holds a vault its history is adopted
// before any local commit, and the index is built from the fetched notes.
func (v *Vault) Init(ctx context.Context, opts InitOptions) error {
	if opts.GPGKey == "" {
		return errors.New("a GPG key is required; pass --gpg-key with a key id or email")
	}
	gateway := gpg.New(opts.GPGKey)
	if !gateway.Available() {
		return fmt.Errorf("%w: gpg binary not found on PATH", gpg.ErrEncryptionUnavailable)
	}

	for _, dir := range []string{storage.NotesDir, storage.PlainDir, "secrets"} {
		if err := os.MkdirAll(filepath.Join(v.root, dir), 0o700); err != nil {
			return fmt.Errorf("create vault layout: %w", err)
		}
	}
	if err := v.writeGitignore(); err != nil {
		return err
	}

	v.cfg.GPGKey = opts.GPGKey
	v.cfg.Git.Remote = opts.Remote
	if err := v.cfg.Save(); err != nil {
		return err
	}
	v.enc = gateway

	v.sync = syncer.New(v.vc, opts.Remote, v.cfg.Branch())
	v.sync.Report = progress.Status
	v.sync.OnPulled = func(ctx context.Context) error {
		_, err := v.Reindex(ctx)
		return err
	}

	adopted, err := v.sync.Bootstrap(ctx, opts.Remote)
	if err != nil {
		return err
	}
	if adopted {
		if _, err := v.Reindex(ctx); err != nil {
			return err
		}
	}
	return nil
}

// writeGitignore keeps machine-local state out of the synced history: the
// index is a rebuildable cache and the audit log is private to the machine.
func (v *Vault) writeGitignore() error {
	content := IndexFileName + "\n" +
		IndexFileName + "-wal\n" +
		IndexFileName + "-shm\n" +
		"log/\n"
	path := filepath.Join(v.root, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write .gitignore: %w", err)
	}
	return nil
}
