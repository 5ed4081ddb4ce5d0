/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// new.go implements note creation. Body text comes from the argument,
// stdin, or an editor session, in that order of preference. Auto-tagging
// runs only when the note arrives with no tags of its own.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/notevault/internal/edit"
	"github.com/jpl-au/notevault/internal/log"
	"github.com/jpl-au/notevault/internal/vault"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a note",
	Long: `Create an encrypted note. Without --body or piped stdin, your editor
opens for the body. Use --plain to store the note unencrypted in the
plain mirror, where external tools can read and edit it.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(c *cobra.Command, args []string) error {
	ctx := c.Context()
	v := theVault()
	title := args[0]

	body, _ := c.Flags().GetString("body")
	tags, _ := c.Flags().GetStringSlice("tag")
	plain, _ := c.Flags().GetBool("plain")

	if body == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			body = string(data)
		} else {
			edited, err := edit.InEditor(ctx, v.Config().EditorCommand(), "")
			if err != nil && err != edit.ErrUnchanged {
				return err
			}
			body = edited
		}
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("empty note body, nothing saved")
	}

	if len(tags) == 0 && v.Config().AutoTagEnabled() {
		suggested, err := v.SuggestTags(ctx, title, body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: auto-tag failed: %v\n", err)
		}
		tags = suggested
	}

	n, err := v.Create(ctx, title, body, vault.CreateOptions{Tags: tags, Plain: plain})
	log.Event("note:new", "create").Note(idOf(n)).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]any{"id": n.ID, "title": n.Title, "tags": n.Tags})
	}
	fmt.Fprintf(Out(), "Created %s: %s\n", n.ID, n.Title)
	if len(n.Tags) > 0 {
		fmt.Fprintf(Out(), "Tags: %s\n", strings.Join(n.Tags, ", "))
	}
	return nil
}

func init() {
	newCmd.Flags().StringP("body", "b", "", "Note body (otherwise stdin or editor)")
	newCmd.Flags().StringSliceP("tag", "t", nil, "Tags for the note (repeatable)")
	newCmd.Flags().Bool("plain", false, "Store unencrypted in the plain mirror")
	rootCmd.AddCommand(newCmd)
}
