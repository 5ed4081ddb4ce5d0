/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/index"
	"github.com/jpl-au/notevault/internal/log"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List notes",
	Long:  `List notes from the index, newest first. Listing never decrypts anything.`,
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func runLs(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	tag, _ := c.Flags().GetString("tag")
	limit, _ := c.Flags().GetInt("limit")
	plainOnly, _ := c.Flags().GetBool("plain")
	sortKey, _ := c.Flags().GetString("sort")

	rows, err := theVault().Search(ctx, index.Filter{
		Tag:       tag,
		PlainOnly: plainOnly,
		SortKey:   index.SortKey(sortKey),
		Limit:     limit,
	})

	log.Event("note:ls", "list").Detail("count", len(rows)).Write(err)

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
	lsCmd.Flags().StringP("tag", "t", "", "Filter by exact tag")
	lsCmd.Flags().IntP("limit", "n", 50, "Maximum notes to list (0 for all)")
	lsCmd.Flags().Bool("plain", false, "Only plain-mirror notes")
	lsCmd.Flags().String("sort", "modified", "Sort key (modified, created, title)")
	rootCmd.AddCommand(lsCmd)
}
