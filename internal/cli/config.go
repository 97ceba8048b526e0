package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: fmt.Sprintf(`Read and write %s settings stored at ~/%s/config.yaml.

Keys: %s
Each key can also be set with the %s environment variable.`,
		branding.DisplayName(), branding.HomeDir(), strings.Join(config.Keys(), ", "), branding.EnvVar("<KEY>")),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !slices.Contains(config.Keys(), key) {
			return fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(config.Keys(), ", "))
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}
