// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the config command, where settings are addressed by
// dotted keys (e.g. "git.remote").
//
// Pointers are used for optional fields so "not set" (nil) is distinct from
// "explicitly set to false/zero"; defaults only apply in the nil case.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"gpg_key", "editor", "auto_sync", "auto_tag",
		"git.remote", "git.branch",
		"llm.provider", "llm.model",
		"index.snippets", "index.snippet_length",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "gpg_key":
		return c.GPGKey, nil
	case "editor":
		return c.EditorCommand(), nil
	case "auto_sync":
		return strconv.FormatBool(c.AutoSyncEnabled()), nil
	case "auto_tag":
		return strconv.FormatBool(c.AutoTagEnabled()), nil
	case "git.remote":
		return c.Git.Remote, nil
	case "git.branch":
		return c.Branch(), nil
	case "llm.provider":
		return c.LLM.Provider, nil
	case "llm.model":
		return c.LLM.Model, nil
	case "index.snippets":
		return strconv.FormatBool(c.SnippetsEnabled()), nil
	case "index.snippet_length":
		return strconv.Itoa(c.SnippetLength()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "gpg_key":
		c.GPGKey = value
	case "editor":
		c.Editor = value
	case "auto_sync":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.AutoSync = &b
	case "auto_tag":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.AutoTag = &b
	case "git.remote":
		c.Git.Remote = value
	case "git.branch":
		c.Git.Branch = value
	case "llm.provider":
		c.LLM.Provider = value
	case "llm.model":
		c.LLM.Model = value
	case "index.snippets":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Index.Snippets = &b
	case "index.snippet_length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > MaxSnippetLength {
			return fmt.Errorf("%w: index.snippet_length must be an integer between 0 and %d",
				ErrInvalidValue, MaxSnippetLength)
		}
		c.Index.SnippetLength = &n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.Validate()
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
}
