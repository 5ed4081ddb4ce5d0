/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// show.go implements the "notevault show" command for reading a note.
//
// Design: terminal output gets glamour markdown rendering; pipe/redirect
// gets raw markdown, so "notevault show <id> > note.md" round-trips.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/notevault/internal/log"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Read a note",
	Long:  `Decrypt a note and print it to stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	raw, _ := c.Flags().GetBool("raw")
	id := args[0]

	n, err := theVault().Get(ctx, id)
	log.Event("note:show", "read").Note(id).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]any{
			"id": n.ID, "title": n.Title, "tags": n.Tags,
			"created": n.Created, "modified": n.Modified, "body": n.Body,
		})
	}

	doc := "# " + n.Title + "\n\n" + n.Body
	if len(n.Tags) > 0 {
		doc = "# " + n.Title + "\n\n*" + strings.Join(n.Tags, ", ") + "*\n\n" + n.Body
	}

	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		rendered, renderErr := glamour.Render(doc, "dark")
		if renderErr == nil {
			fmt.Fprint(Out(), rendered)
			return nil
		}
	}
	fmt.Fprintln(Out(), doc)
	return nil
}

func init() {
	showCmd.Flags().Bool("raw", false, "Output raw markdown without rendering")
	rootCmd.AddCommand(showCmd)
}
