package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/notevault/internal/config"
)

func TestLoad_MissingFile(t *testing.T) {
	// A vault works before init writes a config.
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.GPGKey)
	assert.Equal(t, "main", cfg.Branch())
	assert.False(t, cfg.AutoSyncEnabled())
	assert.False(t, cfg.SnippetsEnabled())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg, err := config.Load(root)
	require.NoError(t, err)
	cfg.GPGKey = "me@example.com"
	cfg.Git.Remote = "git@example.com:me/vault.git"
	cfg.Git.Branch = "vault"
	cfg.LLM.Provider = "claude"
	require.NoError(t, cfg.Set("index.snippets", "true"))
	require.NoError(t, cfg.Save())

	got, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", got.GPGKey)
	assert.Equal(t, "git@example.com:me/vault.git", got.Git.Remote)
	assert.Equal(t, "vault", got.Branch())
	assert.Equal(t, "claude", got.LLM.Provider)
	assert.True(t, got.SnippetsEnabled())
}

func TestLoad_MalformedJSON(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte("{not json"), 0o644))

	_, err := config.Load(root)
	assert.Error(t, err)
}

func TestLoad_InvalidSnippetLength(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName),
		[]byte(`{"index":{"snippet_length":99999}}`), 0o644))

	_, err := config.Load(root)
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestAutoSyncDefaults(t *testing.T) {
	// Auto-sync defaults on only when a remote is configured; an explicit
	// setting always wins.
	var cfg config.Config
	assert.False(t, cfg.AutoSyncEnabled())

	cfg.Git.Remote = "git@example.com:me/vault.git"
	assert.True(t, cfg.AutoSyncEnabled())

	require.NoError(t, cfg.Set("auto_sync", "false"))
	assert.False(t, cfg.AutoSyncEnabled())
}

func TestSnippetDefaults(t *testing.T) {
	var cfg config.Config
	assert.False(t, cfg.SnippetsEnabled(), "snippets are opt-in")
	assert.Equal(t, config.DefaultSnippetLength, cfg.SnippetLength())

	require.NoError(t, cfg.Set("index.snippet_length", "80"))
	assert.Equal(t, 80, cfg.SnippetLength())
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("EDITOR", "")
	var cfg config.Config
	assert.Equal(t, "vi", cfg.EditorCommand())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", cfg.EditorCommand())

	cfg.Editor = "code --wait"
	assert.Equal(t, "code --wait", cfg.EditorCommand())
}

func TestDefaultRoot(t *testing.T) {
	t.Setenv(config.EnvRoot, "/tmp/custom-vault")
	assert.Equal(t, "/tmp/custom-vault", config.DefaultRoot())

	t.Setenv(config.EnvRoot, "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".notevault"), config.DefaultRoot())
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    string // expected Get after Set; defaults to value
		wantErr error
	}{
		{name: "gpg key", key: "gpg_key", value: "me@example.com"},
		{name: "editor", key: "editor", value: "hx"},
		{name: "auto sync", key: "auto_sync", value: "true"},
		{name: "auto tag", key: "auto_tag", value: "false"},
		{name: "remote", key: "git.remote", value: "git@example.com:me/v.git"},
		{name: "branch", key: "git.branch", value: "vault"},
		{name: "provider", key: "llm.provider", value: "openai"},
		{name: "model", key: "llm.model", value: "gpt-4o-mini"},
		{name: "snippets", key: "index.snippets", value: "true"},
		{name: "snippet length", key: "index.snippet_length", value: "200"},
		{name: "bool case-insensitive", key: "auto_sync", value: "TRUE", want: "true"},
		{name: "bad bool", key: "auto_sync", value: "yes", wantErr: config.ErrInvalidValue},
		{name: "bad length", key: "index.snippet_length", value: "-1", wantErr: config.ErrInvalidValue},
		{name: "length too large", key: "index.snippet_length", value: "2000", wantErr: config.ErrInvalidValue},
		{name: "unknown key", key: "nope", value: "x", wantErr: config.ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			want := tt.want
			if want == "" {
				want = tt.value
			}
			assert.Equal(t, want, got)
		})
	}

	t.Run("get unknown key", func(t *testing.T) {
		var cfg config.Config
		_, err := cfg.Get("nope")
		assert.ErrorIs(t, err, config.ErrUnknownKey)
	})
}

func TestValidKeys(t *testing.T) {
	// Every advertised key must round-trip through Get.
	var cfg config.Config
	for _, k := range config.ValidKeys() {
		_, err := cfg.Get(k)
		assert.NoError(t, err, "key %s", k)
		assert.True(t, config.IsValidKey(k))
	}
	assert.False(t, config.IsValidKey("gpg"))
}

func TestSecretPath(t *testing.T) {
	p := config.SecretPath("/vault", "openai_api_key")
	assert.Equal(t, filepath.Join("/vault", "secrets", "openai_api_key.gpg"), p)
}
