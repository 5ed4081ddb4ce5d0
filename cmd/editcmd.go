/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/edit"
	"github.com/jpl-au/notevault/internal/log"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note",
	Long: `Decrypt a note into your editor and re-encrypt it on save. The
plaintext lives in a private temp file only while the editor runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(c *cobra.Command, args []string) error {
	ctx := c.Context()
	v := theVault()
	id := args[0]

	n, err := v.Get(ctx, id)
	if err != nil {
		log.Event("note:edit", "update").Note(id).Write(err)
		return PrintJSONError(err)
	}

	body, err := edit.InEditor(ctx, v.Config().EditorCommand(), n.Body)
	if errors.Is(err, edit.ErrUnchanged) {
		fmt.Fprintln(Out(), "No changes")
		return nil
	}
	if err != nil {
		return PrintJSONError(err)
	}

	n.Body = body
	err = v.Update(ctx, n)
	log.Event("note:edit", "update").Note(id).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]string{"id": n.ID, "status": "updated"})
	}
	fmt.Fprintf(Out(), "Updated %s: %s\n", n.ID, n.Title)
	return nil
}

func init() {
	rootCmd.AddCommand(editCmd)
}
