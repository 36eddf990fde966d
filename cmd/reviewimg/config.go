package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd builds the config command group
func newConfigCmd(logLevel *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		Long: `Inspect the configuration reviewimg would run with.

Values are resolved in this order:
  - Positional arguments and flags (highest priority)
  - Environment variables (REVIEWIMG_*)
  - .env in the working directory, then $HOME/.reviewimg.env
  - Default values (lowest priority)`,
	}

	showCmd := &cobra.Command{
		Use:   "show [export.json] [output-dir]",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args, *logLevel)
			if err != nil {
				return err
			}
			data, err := cfg.Render()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the configuration is usable",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args, *logLevel)
			if err != nil {
				return err
			}
			names := make([]string, 0)
			for _, cat := range cfg.EnabledCategories() {
				names = append(names, cat.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid (categories: %v)\n", names)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, validateCmd)
	return configCmd
}
