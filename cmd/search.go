/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/index"
	"github.com/jpl-au/notevault/internal/log"
)

var searchCmd = &cobra.Command{
	Use:   "search <terms...>",
	Short: "Search notes",
	Long: `Full-text search over titles, tags and indexed text, ranked by
relevance. Encrypted note bodies are searchable only if snippet indexing
is enabled (notevault config index.snippets true); plain notes search in
full. A trailing * on the last term matches prefixes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(c *cobra.Command, args []string) error {
	ctx := c.Context()
	tag, _ := c.Flags().GetString("tag")
	limit, _ := c.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	rows, err := theVault().Search(ctx, index.Filter{
		TextQuery: query,
		Tag:       tag,
		Limit:     limit,
	})

	log.Event("note:search", "search").Detail("count", len(rows)).Write(err)

	if err != nil {
		return PrintJSONError(err)
	}
	if JSON() {
		return PrintJSON(rowsJSON(rows))
	}
	printRows(rows)
	return nil
}

func init() {
	searchCmd.Flags().StringP("tag", "t", "", "Restrict to a tag")
	searchCmd.Flags().IntP("limit", "n", 50, "Maximum results (0 for all)")
	rootCmd.AddCommand(searchCmd)
}
