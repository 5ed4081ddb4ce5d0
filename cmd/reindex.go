/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index",
	Long: `Rebuild the index from the note files. The index is a cache; this is
the recovery path after corruption and the reconciliation path after a
sync pulls notes from another device. Notes that fail to decrypt are
skipped and reported, never fatal.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func runReindex(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	res, err := theVault().Reindex(ctx)

	log.Event("index:reindex", "rebuild").
		Detail("indexed", res.Indexed).
		Detail("failed", len(res.Failures)).
		Write(err)

	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		failures := make([]map[string]string, len(res.Failures))
		for i, f := range res.Failures {
			failures[i] = map[string]string{"id": f.ID, "error": f.Err.Error()}
		}
		return PrintJSON(map[string]any{"indexed": res.Indexed, "failures": failures})
	}

	fmt.Fprintf(Out(), "Indexed %d notes\n", res.Indexed)
	for _, f := range res.Failures {
		fmt.Fprintf(Out(), "Skipped %s: %v\n", f.ID, f.Err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
