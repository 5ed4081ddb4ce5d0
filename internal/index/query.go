// query.go implements listing, filtering and full-text search over the
// index. FTS5 answers text queries ranked by relevance then recency; plain
// listings sort by a frontmatter column. Tag filtering is an exact
// set-membership test, not a substring match.

package index

import (
	"context"
	"fmt"
	"strings"
)

// SortKey selects the ordering for non-search listings.
type SortKey string

const (
	SortModified SortKey = "modified"
	SortCreated  SortKey = "created"
	SortTitle    SortKey = "title"
)

// Filter describes a listing or search query.
type Filter struct {
	Tag       string  // exact tag membership, empty for all
	TextQuery string  // FTS query, empty for a plain listing
	PlainOnly bool    // restrict to plain-mirror notes
	SortKey   SortKey // ignored when TextQuery is set (relevance wins)
	Limit     int     // 0 means no limit
	Offset    int
}

// Query returns rows matching the filter. With a text query, ordering is
// relevance (bm25) then recency; otherwise the sort key, newest/descending
// for timestamps and case-insensitive ascending for titles.
func (d *DB) Query(ctx context.Context, f Filter) ([]Row, error) {
	var b strings.Builder
	var args []any

	if f.TextQuery != "" {
		b.WriteString(`
			SELECT n.id, n.title, n.tags, n.created, n.modified, n.is_plain, n.searchable_text
			FROM notes_fts
			JOIN notes n ON notes_fts.rowid = n.rowid
			WHERE notes_fts MATCH ?`)
		args = append(args, ftsQuery(f.TextQuery))
	} else {
		b.WriteString(`
			SELECT id, title, tags, created, modified, is_plain, searchable_text
			FROM notes WHERE 1=1`)
	}

	if f.Tag != "" {
		// Qualified: the FTS join has a tags column on both sides.
		col := "tags"
		if f.TextQuery != "" {
			col = "n.tags"
		}
		b.WriteString(` AND ' ' || ` + col + ` || ' ' LIKE ? ESCAPE '\'`)
		args = append(args, "% "+escapeLike(f.Tag)+" %")
	}
	if f.PlainOnly {
		b.WriteString(` AND is_plain = 1`)
	}

	switch {
	case f.TextQuery != "":
		b.WriteString(` ORDER BY bm25(notes_fts), modified DESC`)
	case f.SortKey == SortCreated:
		b.WriteString(` ORDER BY created DESC`)
	case f.SortKey == SortTitle:
		b.WriteString(` ORDER BY title COLLATE NOCASE`)
	default:
		b.WriteString(` ORDER BY modified DESC`)
	}

	if f.Limit > 0 {
		b.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, f.Limit, f.Offset)
	} else if f.Offset > 0 {
		b.WriteString(` LIMIT -1 OFFSET ?`)
		args = append(args, f.Offset)
	}

	rows, err := d.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// escapeLike neutralises LIKE metacharacters in a tag so the membership
// test stays literal.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ftsQuery quotes each term so user input never hits FTS5 operator syntax.
// A trailing * on the final term is preserved as a prefix query.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		prefix := ""
		if strings.HasSuffix(t, "*") && len(t) > 1 {
			t = strings.TrimSuffix(t, "*")
			prefix = "*"
		}
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"` + prefix
	}
	return strings.Join(terms, " ")
}
