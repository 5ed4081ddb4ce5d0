// Package config provides reading and writing of vault configuration.
// The config lives inside the vault at <root>/config.json so it replicates
// with the notes; per-machine overrides come from the environment. Secrets
// never appear here: anything sensitive is GPG-encrypted under
// <root>/secrets/.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// FileName is the config file name under the vault root.
const FileName = "config.json"

// EnvRoot overrides the default vault location.
const EnvRoot = "NOTEVAULT_DIR"

// Git holds sync-related configuration.
type Git struct {
	Remote string `json:"remote,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// LLM holds the provider used for tagging and enhancement. The API key is
// not here; it lives GPG-encrypted under secrets/.
type LLM struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Index holds search index options. Snippets put the first words of an
// encrypted note's body into the unencrypted index, trading a sliver of
// confidentiality for better search, so they are off unless opted into.
type Index struct {
	Snippets      *bool `json:"snippets,omitempty"`
	SnippetLength *int  `json:"snippet_length,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultBranch        = "main"
	DefaultEditor        = "vi"
	DefaultSnippetLength = 160
	MaxSnippetLength     = 1024
)

// Config contains configuration for a vault.
type Config struct {
	GPGKey   string `json:"gpg_key,omitempty"`
	Editor   string `json:"editor,omitempty"`
	AutoSync *bool  `json:"auto_sync,omitempty"`
	AutoTag  *bool  `json:"auto_tag,omitempty"`
	Git      Git    `json:"git,omitempty"`
	LLM      LLM    `json:"llm,omitempty"`
	Index    Index  `json:"index,omitempty"`

	// path is the file this config was loaded from (for Save)
	path string
}

// Validate checks that all configured values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Index.SnippetLength != nil {
		v := *c.Index.SnippetLength
		if v < 0 || v > MaxSnippetLength {
			return fmt.Errorf("%w: index.snippet_length must be between 0 and %d, got %d",
				ErrInvalidValue, MaxSnippetLength, v)
		}
	}
	return nil
}

// AutoSyncEnabled reports whether mutations trigger a background sync
// (defaults to true when a remote is configured).
func (c *Config) AutoSyncEnabled() bool {
	if c.AutoSync == nil {
		return c.Git.Remote != ""
	}
	return *c.AutoSync
}

// AutoTagEnabled reports whether new notes get LLM tag suggestions
// (defaults to false).
func (c *Config) AutoTagEnabled() bool {
	return c.AutoTag != nil && *c.AutoTag
}

// SnippetsEnabled reports whether encrypted notes index a body snippet
// (defaults to false).
func (c *Config) SnippetsEnabled() bool {
	return c.Index.Snippets != nil && *c.Index.Snippets
}

// SnippetLength returns the indexed snippet length in runes.
func (c *Config) SnippetLength() int {
	if c.Index.SnippetLength == nil {
		return DefaultSnippetLength
	}
	return *c.Index.SnippetLength
}

// Branch returns the sync branch (defaults to main).
func (c *Config) Branch() string {
	if c.Git.Branch == "" {
		return DefaultBranch
	}
	return c.Git.Branch
}

// EditorCommand returns the editor: config value, then $EDITOR, then vi.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return DefaultEditor
}

// DefaultRoot returns the vault root: $NOTEVAULT_DIR or ~/.notevault.
func DefaultRoot() string {
	if dir := os.Getenv(EnvRoot); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notevault"
	}
	return filepath.Join(home, ".notevault")
}

// PathIn returns the config file path under a vault root.
func PathIn(root string) string {
	return filepath.Join(root, FileName)
}

// SecretPath returns the path of a GPG-encrypted secret under a vault root.
func SecretPath(root, name string) string {
	return filepath.Join(root, "secrets", name+".gpg")
}

// Load reads the configuration under root. A missing file yields a zero
// config so a vault works before init writes one.
func Load(root string) (*Config, error) {
	path := PathIn(root)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the JSON syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the configuration back to its vault.
func (c *Config) Save() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating vault directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
