// Package convert handles format conversion at the vault boundary: files
// coming in through import and notes going out through export. Notes are
// markdown inside the vault; everything else is converted on the way in or
// out, or rejected with a clear error.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// ErrUnsupported indicates a file format import cannot handle.
var ErrUnsupported = errors.New("unsupported file format")

var md = goldmark.New()

// ToHTML renders markdown to HTML for export.
func ToHTML(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Import reads a file and returns a note title and markdown body. The
// title comes from the first heading when present, otherwise the filename.
func Import(path string) (title, body string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt", "":
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		return "", "", fmt.Errorf("%w: %s (convert to markdown or plain text first)",
			ErrUnsupported, filepath.Ext(path))
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	body = string(data)

	title, body = splitTitle(body)
	if title == "" {
		name := filepath.Base(path)
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return title, body, nil
}

// splitTitle pulls a leading "# heading" out of the body, if one exists,
// so the heading becomes the note title instead of repeating in the body.
func splitTitle(body string) (string, string) {
	trimmed := strings.TrimLeft(body, "\n")
	if !strings.HasPrefix(trimmed, "# ") {
		return "", body
	}
	line, rest, _ := strings.Cut(trimmed, "\n")
	return strings.TrimSpace(strings.TrimPrefix(line, "# ")), strings.TrimLeft(rest, "\n")
}
