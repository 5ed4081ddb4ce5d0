package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/notevault/internal/index"
	"github.com/jpl-au/notevault/internal/vault"
)

// testHandlers opens a vault with one plain note and one encrypted note.
// The encrypted note is ciphertext on disk plus an index row, so no gpg
// key is needed to exercise the read gate.
func testHandlers(t *testing.T) (h *handlers, plainID, encryptedID string) {
	t.Helper()
	ctx := context.Background()

	root := t.TempDir()
	v, err := vault.Open(root)
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })

	n, err := v.Create(ctx, "Open Note", "readable body", vault.CreateOptions{Plain: true})
	require.NoError(t, err)

	encryptedID = "20260115103000"
	p := filepath.Join(root, "notes", "2026", "01", encryptedID+".md.gpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
	require.NoError(t, os.WriteFile(p, []byte("\x85\x02ciphertext"), 0o600))

	created, _ := time.Parse("20060102150405", encryptedID)
	require.NoError(t, v.Index().Upsert(ctx, index.Row{
		ID:             encryptedID,
		Title:          "Locked Note",
		Tags:           []string{"secret"},
		Created:        created,
		Modified:       created,
		SearchableText: "Locked Note secret",
	}))

	return &handlers{vault: v}, n.ID, encryptedID
}

func readRequest(id string) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "vault_read"
	req.Params.Arguments = map[string]any{"id": id}
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestReadNote_EncryptedWithholdsBody(t *testing.T) {
	h, _, encryptedID := testHandlers(t)

	res, err := h.readNote(context.Background(), readRequest(encryptedID))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "Locked Note")
	assert.Contains(t, text, `"encrypted": true`)
	assert.Contains(t, text, "--allow-decrypt")
	assert.NotContains(t, text, `"body"`)
	assert.NotContains(t, text, "ciphertext")
}

func TestReadNote_EncryptedUnindexedRefused(t *testing.T) {
	h, _, encryptedID := testHandlers(t)
	require.NoError(t, h.vault.Index().Remove(context.Background(), encryptedID))

	res, err := h.readNote(context.Background(), readRequest(encryptedID))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "--allow-decrypt")
}

func TestReadNote_PlainNeedsNoConsent(t *testing.T) {
	h, plainID, _ := testHandlers(t)

	res, err := h.readNote(context.Background(), readRequest(plainID))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "Open Note")
	assert.Contains(t, text, "readable body")
}

func TestReadNote_AllowDecryptOpensGate(t *testing.T) {
	// With consent the handler goes on to decrypt. The fixture ciphertext
	// is garbage, so the attempt fails, proving the gate no longer blocks.
	h, _, encryptedID := testHandlers(t)
	h.allowDecrypt = true

	res, err := h.readNote(context.Background(), readRequest(encryptedID))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	if text := resultText(t, res); strings.Contains(text, "--allow-decrypt") {
		t.Errorf("consent refusal returned despite --allow-decrypt: %s", text)
	}
}
