// Package mcp implements the Model Context Protocol server, exposing vault
// operations to LLMs. This gives AI assistants read access to notes and
// search over the index through a standardised protocol.
//
// The server runs on the user's machine with the user's GPG agent and
// could decrypt anything, but by default vault_read returns encrypted
// notes as metadata only. Starting the server with --allow-decrypt is the
// explicit consent that lets it decrypt bodies. Tools never return
// secrets from the secret store.
package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/notevault/internal/progress"
	"github.com/jpl-au/notevault/internal/vault"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio. Uses stdio transport for
// compatibility with Claude Desktop and other MCP clients; stdout is
// reserved for JSON-RPC, all diagnostics go to stderr. allowDecrypt
// opens the vault_read body gate for encrypted notes.
func Serve(v *vault.Vault, allowDecrypt bool) error {
	h := &handlers{vault: v, allowDecrypt: allowDecrypt}

	s := server.NewMCPServer(
		"notevault",
		Version,
		server.WithToolCapabilities(true),
	)
	registerTools(s, h)

	progress.Status("notevault MCP server ready (stdio)")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handlers provides MCP request handlers with access to the open vault.
type handlers struct {
	vault        *vault.Vault
	allowDecrypt bool
}

// registerTools exposes vault operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("vault_list",
			mcp.WithDescription("List notes, newest first. Returns metadata only, not note bodies."),
			mcp.WithString("tag", mcp.Description("Filter by exact tag")),
			mcp.WithNumber("limit", mcp.Description("Maximum notes to return (default 20)")),
		),
		h.listNotes,
	)

	s.AddTool(
		mcp.NewTool("vault_search",
			mcp.WithDescription("Full-text search over note titles, tags and indexed text. Encrypted note bodies are not searchable unless snippet indexing is enabled."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search terms; a trailing * on the last term matches prefixes")),
			mcp.WithString("tag", mcp.Description("Restrict results to a tag")),
			mcp.WithNumber("limit", mcp.Description("Maximum results (default 20)")),
		),
		h.searchNotes,
	)

	s.AddTool(
		mcp.NewTool("vault_read",
			mcp.WithDescription("Read one note by id. Plain notes return the full markdown body; encrypted notes return metadata only unless the server was started with --allow-decrypt."),
			mcp.WithString("id", mcp.Required(), mcp.Description("14-digit note id")),
		),
		h.readNote,
	)

	s.AddTool(
		mcp.NewTool("vault_tags",
			mcp.WithDescription("List all tags with their note counts."),
		),
		h.listTags,
	)
}
