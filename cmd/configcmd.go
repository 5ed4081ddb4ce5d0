/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// configcmd.go implements the config command: dotted-key get/set over the
// vault config, plus --llm-key which never touches config.json; API keys
// go GPG-encrypted into the secret store.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/notevault/internal/config"
	"github.com/jpl-au/notevault/internal/llm"
	"github.com/jpl-au/notevault/internal/log"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration",
	Long: `With no arguments, print the configuration. With a key, print its
value. With a key and value, set it.

Keys: ` + strings.Join(config.ValidKeys(), ", ") + `

The LLM API key is set with --llm-key and stored GPG-encrypted under
secrets/, never in config.json.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(c *cobra.Command, args []string) error {
	ctx := c.Context()
	v := theVault()
	cfg := v.Config()
	llmKey, _ := c.Flags().GetString("llm-key")

	if llmKey != "" {
		provider := cfg.LLM.Provider
		if provider == "" {
			return fmt.Errorf("set llm.provider before storing an API key")
		}
		if provider == llm.ProviderOllama {
			return fmt.Errorf("ollama does not use an API key")
		}
		err := v.SetSecret(ctx, provider+"_api_key", llmKey)
		log.Event("config:set", "secret").Detail("key", provider+"_api_key").Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(Out(), "API key for %s saved (GPG-encrypted)\n", provider)
		if len(args) == 0 {
			return nil
		}
	}

	switch len(args) {
	case 0:
		return printConfig(cfg)
	case 1:
		val, err := cfg.Get(args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{args[0]: val})
		}
		fmt.Fprintln(Out(), val)
		return nil
	default:
		key, value := args[0], args[1]
		if key == "llm.provider" && !llm.ValidProvider(value) {
			return fmt.Errorf("invalid provider %q (openai, claude, ollama)", value)
		}
		if err := cfg.Set(key, value); err != nil {
			return PrintJSONError(err)
		}
		// Setting a provider without a model picks the provider default.
		if key == "llm.provider" && cfg.LLM.Model == "" {
			cfg.LLM.Model = llm.DefaultModel(value)
		}
		err := cfg.Save()
		log.Event("config:set", "write").Detail("key", key).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintf(Out(), "%s = %s\n", key, value)
		return nil
	}
}

func printConfig(cfg *config.Config) error {
	if JSON() {
		all := make(map[string]string, len(config.ValidKeys()))
		for _, k := range config.ValidKeys() {
			v, err := cfg.Get(k)
			if err != nil {
				return err
			}
			all[k] = v
		}
		return PrintJSON(all)
	}
	for _, k := range config.ValidKeys() {
		v, err := cfg.Get(k)
		if err != nil {
			return err
		}
		if v == "" {
			v = "(not set)"
		}
		fmt.Fprintf(Out(), "%-22s %s\n", k, v)
	}
	return nil
}

func init() {
	configCmd.Flags().String("llm-key", "", "Store the LLM API key (GPG-encrypted)")
	rootCmd.AddCommand(configCmd)
}
