/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the vault",
	Long: `Run one sync cycle: repair the repository if a previous sync was
interrupted, commit local changes, merge the remote (local wins on
conflicting notes), and push. An unreachable remote is not an error;
changes are committed locally and sync retries next time.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	res, err := theVault().Sync(ctx)

	log.Event("sync:run", "sync").
		Detail("committed", res.Committed).
		Detail("pulled", res.Pulled).
		Detail("pushed", res.Pushed).
		Detail("offline", res.Offline).
		Detail("repaired", strings.Join(res.Repaired, "; ")).
		Detail("resolved", len(res.Resolved)).
		Write(err)

	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(res)
	}
	for _, action := range res.Repaired {
		fmt.Fprintf(Out(), "Repaired: %s\n", action)
	}
	for _, p := range res.Resolved {
		fmt.Fprintf(Out(), "Conflict resolved, kept local: %s\n", p)
	}
	switch {
	case res.Offline:
		fmt.Fprintln(Out(), "Remote unreachable; changes committed locally")
	case res.Pushed || res.Pulled || res.Committed:
		fmt.Fprintln(Out(), "Synced")
	default:
		fmt.Fprintln(Out(), "Already up to date")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
