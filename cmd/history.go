/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/notevault/internal/log"
)

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a note's revisions",
	Long: `List the commits that changed a note. With --diff, decrypt two
revisions and show the plaintext difference (old revision against the
current note unless --to is given).`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func runHistory(c *cobra.Command, args []string) error {
	ctx := c.Context()
	v := theVault()
	id := args[0]
	diffRev, _ := c.Flags().GetString("diff")
	toRev, _ := c.Flags().GetString("to")
	limit, _ := c.Flags().GetInt("limit")

	if diffRev != "" {
		result, err := v.DiffRevisions(ctx, id, diffRev, toRev)
		log.Event("note:history", "diff").Note(id).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"old": result.Old, "new": result.New, "diff": result.Diff})
		}
		colour := term.IsTerminal(int(os.Stdout.Fd()))
		fmt.Fprint(Out(), result.Format(colour))
		return nil
	}

	revs, err := v.History(ctx, id, limit)
	log.Event("note:history", "list").Note(id).Detail("count", len(revs)).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(revs)
	}
	for _, r := range revs {
		hash := r.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		fmt.Fprintf(Out(), "%s  %s  %s\n", hash, r.Date, r.Subject)
	}
	return nil
}

func init() {
	historyCmd.Flags().String("diff", "", "Diff from this revision")
	historyCmd.Flags().String("to", "", "Diff to this revision (default: current note)")
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum revisions to list (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
