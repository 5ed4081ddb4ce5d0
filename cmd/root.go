/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Design: the vault is opened lazily in PersistentPreRunE for commands
// that need it, so "notevault init" and "notevault config" work before a
// vault exists. The noVaultCommands map controls which commands skip
// opening.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/log"
	"github.com/jpl-au/notevault/internal/vault"
	"github.com/jpl-au/notevault/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "notevault",
	Short: "GPG-encrypted personal notes with git sync",
	Long: `A personal note manager. Notes are markdown, individually GPG-encrypted
at rest, searchable through a local index, and synchronised between
machines over a git remote. The vault self-heals from interrupted syncs.`,
	Version: version.String(),
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if noVaultCommands[cmd.Name()] {
			return nil
		}
		v, err := vault.Open(Root())
		if err != nil {
			return fmt.Errorf("open vault: %w", err)
		}
		active = v
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if active != nil {
			if err := active.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: closing vault: %v\n", err)
			}
			active = nil
		}
	},
}

// noVaultCommands run without an open vault.
var noVaultCommands = map[string]bool{
	"init":       true,
	"help":       true,
	"completion": true,
	"version":    true,
}

// active is the vault opened for the current command.
var active *vault.Vault

// theVault returns the open vault. Commands outside noVaultCommands can
// rely on PersistentPreRunE having set it.
func theVault() *vault.Vault {
	return active
}

// Execute runs the root command and handles process lifecycle. Opens
// audit logging, executes the command, and exits 1 on error.
func Execute() {
	if err := log.Open(Root()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	if err := rootCmd.Execute(); err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
