/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
)

var clipCmd = &cobra.Command{
	Use:   "clip <title> <url>",
	Short: "Save web content as a note",
	Long: `Create a note from clipped web content, recording the source URL and
clip time in the note's metadata. The body is read from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runClip,
}

func runClip(c *cobra.Command, args []string) error {
	ctx := c.Context()
	tags, _ := c.Flags().GetStringSlice("tag")
	title, url := args[0], args[1]

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("empty clip body on stdin")
	}

	n, err := theVault().Clip(ctx, title, string(data), url, tags)
	log.Event("note:clip", "create").Note(idOf(n)).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]string{"id": n.ID, "title": n.Title, "source_url": url})
	}
	fmt.Fprintf(Out(), "Clipped %s: %s\n", n.ID, n.Title)
	return nil
}

func init() {
	clipCmd.Flags().StringSliceP("tag", "t", nil, "Tags for the clipped note")
	rootCmd.AddCommand(clipCmd)
}
