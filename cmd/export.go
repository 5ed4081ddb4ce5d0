/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a note",
	Long: `Decrypt a note and write it out as markdown (default) or HTML.
Output goes to stdout unless --out names a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(c *cobra.Command, args []string) error {
	ctx := c.Context()
	id := args[0]
	format, _ := c.Flags().GetString("format")
	outFile, _ := c.Flags().GetString("out")

	data, err := theVault().Export(ctx, id, format)
	log.Event("note:export", "read").Note(id).Detail("format", format).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, data, 0o644); err != nil {
			return PrintJSONError(fmt.Errorf("write %s: %w", outFile, err))
		}
		fmt.Fprintf(Out(), "Exported %s to %s\n", id, outFile)
		return nil
	}
	_, err = Out().Write(data)
	return err
}

func init() {
	exportCmd.Flags().StringP("format", "f", "md", "Output format (md, html)")
	exportCmd.Flags().String("out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
