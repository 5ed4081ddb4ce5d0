/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags",
	Long:  `List every tag with its note count, most used first.`,
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func runTags(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	counts, err := theVault().Index().Tags(ctx)
	log.Event("note:tags", "list").Detail("count", len(counts)).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(counts)
	}

	type tagCount struct {
		tag string
		n   int
	}
	sorted := make([]tagCount, 0, len(counts))
	for t, n := range counts {
		sorted = append(sorted, tagCount{t, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].n != sorted[j].n {
			return sorted[i].n > sorted[j].n
		}
		return sorted[i].tag < sorted[j].tag
	})
	for _, tc := range sorted {
		fmt.Fprintf(Out(), "%4d  %s\n", tc.n, tc.tag)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
