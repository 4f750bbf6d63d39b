// ABOUTME: Config commands to create and inspect the TOML config file
// ABOUTME: init writes a commented sample; show prints the effective values
package commands

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/harper/transcript-tidy/internal/config"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Long: `Manage the transcript-tidy configuration file.

Settings load in order: built-in defaults, then the TOML config file,
then environment variables, then command-line flags. The config file
location is ` + "`~/.config/transcript-tidy/config.toml`" + ` unless
TRANSCRIPT_TIDY_CONFIG points somewhere else.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if path == "" {
				return fmt.Errorf("could not determine a config file location")
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote sample config to %s\n", path)
			}
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration after applying the config file
and environment variables. Flag overrides are not included; they apply
per invocation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path := config.Path()
			if _, serr := os.Stat(path); serr == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s (not present, using defaults)\n", path)
			}

			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s", data)

			if cfg.APIKey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s is set\n", config.KeyEnvVar(cfg.Provider))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s is not set\n", config.KeyEnvVar(cfg.Provider))
			}
			return nil
		},
	}
}
