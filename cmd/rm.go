/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Long: `Delete a note's file and index entry. The deletion syncs like any
other change; history keeps prior revisions in the repository.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func runRm(c *cobra.Command, args []string) error {
	ctx := c.Context()
	v := theVault()
	force, _ := c.Flags().GetBool("force")
	id := args[0]

	if !force {
		n, err := v.Get(ctx, id)
		if err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(os.Stderr, "Delete %s: %s? [y/N] ", n.ID, n.Title)
		reply, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(reply)) != "y" {
			fmt.Fprintln(Out(), "Cancelled")
			return nil
		}
	}

	err := v.Delete(ctx, id)
	log.Event("note:rm", "delete").Note(id).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]string{"id": id, "status": "deleted"})
	}
	fmt.Fprintf(Out(), "Deleted %s\n", id)
	return nil
}

func init() {
	rmCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
