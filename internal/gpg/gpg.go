// Package gpg wraps the external GNU Privacy Guard binary as the vault's
// encryption gateway. The Encryptor interface lets the rest of the code run
// against an in-memory fake, so nothing outside this package ever spawns the
// real tool.
//
// Every encryption path funnels through Encrypt, which sanitises the
// plaintext first. Sanitisation must never be skippable per call site:
// a forgotten call is how typographic quotes used to corrupt the tool's
// latin-1 input channel.
package gpg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrEncryptionUnavailable indicates the gpg binary or the configured
	// recipient key is missing. Always surfaced, never swallowed: silently
	// writing plaintext where ciphertext was expected is data exposure.
	ErrEncryptionUnavailable = errors.New("encryption unavailable")
	// ErrDecryptionFailed indicates a wrong passphrase or corrupted
	// ciphertext. Always surfaced: the note body may be unrecoverable.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Encryptor is the capability the vault core depends on. Implementations:
// GPG (this package) and fakes in tests.
type Encryptor interface {
	// Encrypt sanitises and encrypts plaintext for the configured recipient.
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	// Decrypt recovers plaintext from ciphertext.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// GPG invokes the gpg binary as a short-lived subprocess per operation.
// No passphrase or plaintext is retained between calls; the agent owns
// passphrase caching.
type GPG struct {
	// KeyID is the recipient key identifier notes are encrypted to.
	KeyID string
	// Binary overrides the gpg executable name, for tests.
	Binary string
}

var _ Encryptor = (*GPG)(nil)

// New returns a gateway encrypting to the given recipient key.
func New(keyID string) *GPG {
	return &GPG{KeyID: keyID, Binary: "gpg"}
}

func (g *GPG) binary() string {
	if g.Binary != "" {
		return g.Binary
	}
	return "gpg"
}

// Available reports whether the gpg binary can be found.
func (g *GPG) Available() bool {
	_, err := exec.LookPath(g.binary())
	return err == nil
}

// Encrypt encrypts plaintext to the configured recipient. The plaintext is
// sanitised first; Sanitize is idempotent so double application is harmless.
func (g *GPG) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	if g.KeyID == "" {
		return nil, fmt.Errorf("%w: no recipient key configured", ErrEncryptionUnavailable)
	}
	if !g.Available() {
		return nil, fmt.Errorf("%w: gpg not found in PATH", ErrEncryptionUnavailable)
	}

	clean := Sanitize(string(plaintext))

	cmd := exec.CommandContext(ctx, g.binary(),
		"--batch", "--yes", "--quiet",
		"--encrypt", "--recipient", g.KeyID,
		"--output", "-")
	cmd.Stdin = strings.NewReader(clean)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrEncryptionUnavailable, err, firstLine(stderr.String()))
	}
	return out.Bytes(), nil
}

// Decrypt recovers plaintext. A non-zero exit means wrong passphrase,
// missing private key, or corrupted input; all map to ErrDecryptionFailed.
func (g *GPG) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if !g.Available() {
		return nil, fmt.Errorf("%w: gpg not found in PATH", ErrEncryptionUnavailable)
	}

	cmd := exec.CommandContext(ctx, g.binary(),
		"--batch", "--quiet",
		"--decrypt")
	cmd.Stdin = bytes.NewReader(ciphertext)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrDecryptionFailed, err, firstLine(stderr.String()))
	}
	return out.Bytes(), nil
}

// firstLine trims gpg's stderr to its first line for error messages; the
// full output repeats the key fingerprint on every line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
