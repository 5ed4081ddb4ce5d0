/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"
	"strings"

	"github.com/jpl-au/notevault/internal/index"
	"github.com/jpl-au/notevault/internal/note"
)

// idOf reads a note id for audit logging, tolerating a nil note from a
// failed operation.
func idOf(n *note.Note) string {
	if n == nil {
		return ""
	}
	return n.ID
}

// printRows writes a listing table: id, modified date, title, tags.
func printRows(rows []index.Row) {
	for _, r := range rows {
		line := fmt.Sprintf("%s  %s  %s", r.ID, r.Modified.Local().Format("2006-01-02 15:04"), r.Title)
		if len(r.Tags) > 0 {
			line += "  [" + strings.Join(r.Tags, ", ") + "]"
		}
		if r.IsPlain {
			line += "  (plain)"
		}
		fmt.Fprintln(Out(), line)
	}
}

// rowsJSON projects rows for JSON output.
func rowsJSON(rows []index.Row) []map[string]any {
	result := make([]map[string]any, len(rows))
	for i, r := range rows {
		result[i] = map[string]any{
			"id":       r.ID,
			"title":    r.Title,
			"tags":     r.Tags,
			"created":  r.Created,
			"modified": r.Modified,
			"plain":    r.IsPlain,
		}
	}
	return result
}
