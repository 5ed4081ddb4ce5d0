// Package edit launches the user's editor on decrypted note content. The
// plaintext is written to a private temp file, edited, read back and
// deleted; it exists on disk only while the editor runs.
package edit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrUnchanged indicates the editor session made no changes.
var ErrUnchanged = errors.New("no changes made")

// InEditor runs the configured editor over content and returns the edited
// result. The editor string may carry arguments ("code --wait").
func InEditor(ctx context.Context, editor, content string) (string, error) {
	tmp, err := os.CreateTemp("", "notevault-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if err := os.Chmod(name, 0o600); err != nil {
		tmp.Close()
		return "", fmt.Errorf("restrict temp file: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	argv := append(splitCommand(editor), name)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s: %w", argv[0], err)
	}

	edited, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	if string(edited) == content {
		return content, ErrUnchanged
	}
	return string(edited), nil
}

// splitCommand splits an editor setting on whitespace. Editors with spaces
// in their path need a wrapper script; quoting rules are not worth owning
// for that case.
func splitCommand(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []string{"vi"}
	}
	return fields
}
