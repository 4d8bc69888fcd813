package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querycompiler/cli/internal/config"
	"github.com/satishbabariya/querycompiler/cli/internal/ui"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save CLI configuration",
	}
	cmd.AddCommand(newConfigShowCommand(o))
	cmd.AddCommand(newConfigInitCommand(o))
	return cmd
}

func newConfigShowCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := o.cfg.File
			if file == "" {
				file = "(none)"
			}
			dbURL := o.cfg.DatabaseURL
			if dbURL == "" {
				dbURL = "(unset)"
			}
			return ui.PrintTable(cmd.OutOrStdout(), []string{"Setting", "Value"}, [][]string{
				{"config file", file},
				{"dialect", o.cfg.Dialect},
				{"format", o.cfg.Format},
				{"database url", dbURL},
			})
		},
	}
}

func newConfigInitCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Save the current dialect and format as defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := o.backend(); err != nil {
				return err
			}
			path, err := config.SaveConfig(o.cfg)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			ui.PrintSuccess("Configuration written to %s", path)
			return nil
		},
	}
}
