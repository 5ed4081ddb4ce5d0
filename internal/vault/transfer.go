// transfer.go moves content across the vault boundary: file import, note
// export, and LLM-backed enhancement and tagging. Secrets used here (the
// LLM API key) come from the GPG-encrypted secret store and exist in
// memory only for the duration of the request.

package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jpl-au/notevault/internal/config"
	"github.com/jpl-au/notevault/internal/convert"
	"github.com/jpl-au/notevault/internal/llm"
	"github.com/jpl-au/notevault/internal/note"
	"github.com/jpl-au/notevault/internal/tagger"
)

// ImportFile converts a file into a new encrypted note.
func (v *Vault) ImportFile(ctx context.Context, path string, tags []string) (*note.Note, error) {
	title, body, err := convert.Import(path)
	if err != nil {
		return nil, err
	}
	return v.Create(ctx, title, body, CreateOptions{Tags: tags})
}

// Export renders a note for use outside the vault. Format "html" renders
// the markdown; anything else returns the marshalled markdown document.
func (v *Vault) Export(ctx context.Context, id, format string) ([]byte, error) {
	n, err := v.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if format == "html" {
		return convert.ToHTML([]byte("# " + n.Title + "\n\n" + n.Body))
	}
	return n.Marshal()
}

// Clip creates a note from web content, recording its origin.
func (v *Vault) Clip(ctx context.Context, title, body, sourceURL string, tags []string) (*note.Note, error) {
	return v.Create(ctx, title, body, CreateOptions{
		Tags:      tags,
		SourceURL: sourceURL,
		ClippedAt: time.Now(),
	})
}

// LLMClient builds a client from config, decrypting the provider's API key
// from the secret store. Ollama needs no key.
func (v *Vault) LLMClient(ctx context.Context) (*llm.Client, error) {
	provider := v.cfg.LLM.Provider
	if provider == "" {
		return nil, llm.ErrNotConfigured
	}

	var key string
	if provider != llm.ProviderOllama {
		var err error
		key, err = v.Secret(ctx, provider+"_api_key")
		if err != nil {
			return nil, fmt.Errorf("load %s API key: %w", provider, err)
		}
	}
	return llm.New(provider, v.cfg.LLM.Model, key)
}

// Enhance rewrites a note's body per the instructions and returns the
// revised body without saving. The caller diffs and decides.
func (v *Vault) Enhance(ctx context.Context, id, instructions string) (n *note.Note, revised string, err error) {
	n, err = v.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	client, err := v.LLMClient(ctx)
	if err != nil {
		return nil, "", err
	}
	revised, err = llm.Enhance(ctx, client, n.Title, n.Body, instructions)
	if err != nil {
		return nil, "", err
	}
	return n, revised, nil
}

// SuggestTags returns LLM tag suggestions for content that is not saved
// yet. Returns nil without error when no provider is configured, so
// auto-tag silently degrades on machines without LLM access.
func (v *Vault) SuggestTags(ctx context.Context, title, body string) ([]string, error) {
	client, err := v.LLMClient(ctx)
	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tagger.New(client).Suggest(ctx, title, body)
}

// Secret decrypts a named secret from the vault's secret store.
func (v *Vault) Secret(ctx context.Context, name string) (string, error) {
	data, err := os.ReadFile(config.SecretPath(v.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("secret %s not set", name)
		}
		return "", fmt.Errorf("read secret %s: %w", name, err)
	}
	plain, err := v.enc.Decrypt(ctx, data)
	if err != nil {
		return "", fmt.Errorf("secret %s: %w", name, err)
	}
	return string(plain), nil
}

// SetSecret encrypts and stores a named secret. The plaintext never
// touches disk.
func (v *Vault) SetSecret(ctx context.Context, name, value string) error {
	ciphertext, err := v.enc.Encrypt(ctx, []byte(value))
	if err != nil {
		return fmt.Errorf("secret %s: %w", name, err)
	}
	path := config.SecretPath(v.root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create secrets directory: %w", err)
	}
	if err := os.WriteFile(path, ciphertext, 0o600); err != nil {
		return fmt.Errorf("write secret %s: %w", name, err)
	}
	return nil
}
