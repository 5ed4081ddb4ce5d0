/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
	"github.com/jpl-au/notevault/internal/vault"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a vault",
	Long: `Create the vault directory layout, write its configuration, and
initialise the git repository. With --remote, an existing vault on the
remote is adopted: its history is fetched and checked out before any
local commit, so a second device starts from the shared history.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	key, _ := c.Flags().GetString("gpg-key")
	remote, _ := c.Flags().GetString("remote")

	v, err := vault.Open(Root())
	if err != nil {
		return PrintJSONError(err)
	}
	defer v.Close()

	err = v.Init(ctx, vault.InitOptions{GPGKey: key, Remote: remote})
	log.Event("vault:init", "init").Write(err)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]string{"root": v.Root(), "gpg_key": key})
	}
	fmt.Fprintf(Out(), "Vault created at %s\n", v.Root())
	if remote != "" {
		fmt.Fprintf(Out(), "Syncing with %s\n", remote)
	}
	return nil
}

func init() {
	initCmd.Flags().String("gpg-key", "", "GPG key id or email to encrypt notes to (required)")
	initCmd.Flags().String("remote", "", "Git remote URL to sync with")
	_ = initCmd.MarkFlagRequired("gpg-key")
	rootCmd.AddCommand(initCmd)
}
