/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Flags are package-level variables bound to the root command; commands
// read them through accessors rather than touching cobra internals. The
// JSON() helper drives output format detection across all commands.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/notevault/internal/config"
)

var (
	output   string
	rootFlag string
)

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// Root returns the vault root directory.
// Priority: --root flag > NOTEVAULT_DIR env var > ~/.notevault.
func Root() string {
	if rootFlag != "" {
		return rootFlag
	}
	return config.DefaultRoot()
}

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// PrintJSON marshals v and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if !JSON() {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// PrintJSONError emits err as JSON when JSON output is requested, then
// returns it so cobra still exits non-zero.
func PrintJSONError(err error) error {
	if JSON() {
		_ = PrintJSON(map[string]string{"error": err.Error()})
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (json)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Vault directory (default $NOTEVAULT_DIR or ~/.notevault)")
}
