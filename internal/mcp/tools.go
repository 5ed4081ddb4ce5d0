// tools.go implements the MCP tool handlers. Results are JSON for easy LLM
// parsing. Handler errors are returned as tool results rather than Go
// errors so the model sees what went wrong and can adjust the call.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/notevault/internal/index"
	"github.com/jpl-au/notevault/internal/log"
)

const defaultLimit = 20

// errDecryptConsent is the refusal vault_read returns for an encrypted
// body when the server was started without --allow-decrypt.
var errDecryptConsent = errors.New("note is encrypted; bodies require the server to run with --allow-decrypt")

// rowJSON is the metadata projection returned by list and search.
type rowJSON struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags,omitempty"`
	Created  string   `json:"created"`
	Modified string   `json:"modified"`
	Plain    bool     `json:"plain,omitempty"`
}

func toRowJSON(r index.Row) rowJSON {
	return rowJSON{
		ID:       r.ID,
		Title:    r.Title,
		Tags:     r.Tags,
		Created:  r.Created.Format(time.RFC3339),
		Modified: r.Modified.Format(time.RFC3339),
		Plain:    r.IsPlain,
	}
}

// listNotes handles vault_list tool calls.
func (h *handlers) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := index.Filter{
		Tag:   getString(req, "tag", ""),
		Limit: getInt(req, "limit", defaultLimit),
	}

	rows, err := h.vault.Search(ctx, f)

	log.Event("mcp:vault_list", "list").Detail("count", len(rows)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := make([]rowJSON, len(rows))
	for i, r := range rows {
		result[i] = toRowJSON(r)
	}
	return jsonResult(result)
}

// searchNotes handles vault_search tool calls.
func (h *handlers) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil //nolint:nilerr
	}

	f := index.Filter{
		TextQuery: query,
		Tag:       getString(req, "tag", ""),
		Limit:     getInt(req, "limit", defaultLimit),
	}

	rows, err := h.vault.Search(ctx, f)

	log.Event("mcp:vault_search", "search").Detail("count", len(rows)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := make([]rowJSON, len(rows))
	for i, r := range rows {
		result[i] = toRowJSON(r)
	}
	return jsonResult(result)
}

// readNote handles vault_read tool calls. Without decrypt consent an
// encrypted note comes back as its index metadata, never its body.
func (h *handlers) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	if !h.allowDecrypt {
		if found, plain := h.vault.Exists(id); found && !plain {
			log.Event("mcp:vault_read", "read").Note(id).Write(errDecryptConsent)

			row, rowErr := h.vault.Index().Get(ctx, id)
			if rowErr != nil {
				return mcp.NewToolResultError(errDecryptConsent.Error()), nil
			}
			meta := toRowJSON(*row)
			return jsonResult(map[string]any{
				"id":        meta.ID,
				"title":     meta.Title,
				"tags":      meta.Tags,
				"created":   meta.Created,
				"modified":  meta.Modified,
				"encrypted": true,
				"withheld":  errDecryptConsent.Error(),
			})
		}
	}

	n, err := h.vault.Get(ctx, id)

	log.Event("mcp:vault_read", "read").Note(id).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"id":       n.ID,
		"title":    n.Title,
		"tags":     n.Tags,
		"created":  n.Created.Format(time.RFC3339),
		"modified": n.Modified.Format(time.RFC3339),
		"body":     n.Body,
	})
}

// listTags handles vault_tags tool calls.
func (h *handlers) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts, err := h.vault.Index().Tags(ctx)

	log.Event("mcp:vault_tags", "list").Detail("count", len(counts)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(counts)
}

// getString extracts a string parameter, returning the default if the
// parameter is missing. Optional parameters should never fail a tool call;
// LLMs omit them routinely.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getInt extracts an integer parameter. JSON numbers decode as float64, so
// the assertion goes through float64 first.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
