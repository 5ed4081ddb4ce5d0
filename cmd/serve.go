/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Serve vault tools over the Model Context Protocol on stdio, for use
with Claude Desktop and other MCP clients. Stdout carries JSON-RPC;
diagnostics go to stderr.

By default vault_read returns encrypted notes as metadata only; pass
--allow-decrypt to let connected clients read decrypted bodies.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		allowDecrypt, _ := c.Flags().GetBool("allow-decrypt")
		return mcp.Serve(theVault(), allowDecrypt)
	},
}

func init() {
	serveCmd.Flags().Bool("allow-decrypt", false, "Let MCP clients read decrypted note bodies")
	rootCmd.AddCommand(serveCmd)
}
