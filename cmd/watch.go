/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the plain mirror",
	Long: `Watch the plain mirror for external edits and keep the index
current. Runs until interrupted. Encrypted notes do not need watching;
they only change through vault commands.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(c *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watch.Run(ctx, theVault())
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
