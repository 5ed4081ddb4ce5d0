/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import files as notes",
	Long: `Convert files into encrypted notes. Markdown and plain text are
supported; a leading "# heading" becomes the note title, otherwise the
filename does. One failed file does not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(c *cobra.Command, args []string) error {
	ctx := c.Context()
	v := theVault()
	tags, _ := c.Flags().GetStringSlice("tag")

	imported := 0
	failed := 0
	for _, path := range args {
		n, err := v.ImportFile(ctx, path, tags)
		log.Event("note:import", "create").Note(idOf(n)).Write(err)
		if err != nil {
			fmt.Fprintf(Out(), "Failed %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(Out(), "Imported %s as %s: %s\n", path, n.ID, n.Title)
		imported++
	}

	if JSON() {
		return PrintJSON(map[string]int{"imported": imported, "failed": failed})
	}
	if len(args) > 1 {
		fmt.Fprintf(Out(), "%d imported, %d failed\n", imported, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to import", failed)
	}
	return nil
}

func init() {
	importCmd.Flags().StringSliceP("tag", "t", nil, "Tags for the imported notes")
	rootCmd.AddCommand(importCmd)
}
