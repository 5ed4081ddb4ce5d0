/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// enhance.go implements LLM-assisted note revision. The revised body is
// always shown as a diff first; --apply saves without asking, otherwise
// the user confirms.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/notevault/internal/diff"
	"github.com/jpl-au/notevault/internal/log"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <id>",
	Short: "Improve a note with LLM assistance",
	Long: `Send a note's body to the configured LLM with revision instructions
and show the proposed changes as a diff. Requires llm.provider to be
configured; the API key comes from the encrypted secret store.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnhance,
}

func runEnhance(c *cobra.Command, args []string) error {
	ctx := c.Context()
	v := theVault()
	id := args[0]
	instructions, _ := c.Flags().GetString("instructions")
	apply, _ := c.Flags().GetBool("apply")

	n, revised, err := v.Enhance(ctx, id, instructions)
	log.Event("note:enhance", "update").Note(id).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if revised == n.Body {
		fmt.Fprintln(Out(), "No changes suggested")
		return nil
	}

	result := diff.Compute(n.Body, revised, "original", "enhanced")
	colour := term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Fprint(Out(), result.Format(colour))

	if !apply {
		fmt.Fprint(os.Stderr, "Apply changes? [y/N] ")
		reply, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(reply)) != "y" {
			fmt.Fprintln(Out(), "Discarded")
			return nil
		}
	}

	n.Body = revised
	err = v.Update(ctx, n)
	log.Event("note:enhance", "save").Note(id).Write(err)
	if err != nil {
		return PrintJSONError(err)
	}
	fmt.Fprintf(Out(), "Enhanced %s: %s\n", n.ID, n.Title)
	return nil
}

func init() {
	enhanceCmd.Flags().StringP("instructions", "i", "", "Revision instructions (default: fix grammar and clarity)")
	enhanceCmd.Flags().Bool("apply", false, "Save without confirmation")
	rootCmd.AddCommand(enhanceCmd)
}
