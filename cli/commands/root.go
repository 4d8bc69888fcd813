// Package commands implements the querycompiler CLI.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querycompiler/cli/internal/config"
	"github.com/satishbabariya/querycompiler/cli/internal/ui"
	"github.com/satishbabariya/querycompiler/cli/internal/version"
	"github.com/satishbabariya/querycompiler/internal/debug"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

// options are the global flags merged over the loaded configuration.
type options struct {
	configFile string
	dialect    string
	format     string
	debug      bool

	cfg *config.Config
}

// backend returns the dialect chosen by flag or configuration.
func (o *options) backend() (sqlgen.Backend, error) {
	return sqlgen.ParseBackend(o.cfg.Dialect)
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "querycompiler",
		Short: "Compile query documents into parameterized SQL",
		Long: `querycompiler compiles dialect-neutral query documents into SQL with
bound parameters for PostgreSQL ($N placeholders), MySQL and SQLite (?).`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug.Init(o.debug)

			cfg, err := config.LoadConfig(o.configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("dialect") {
				cfg.Dialect = o.dialect
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = o.format
			}
			debug.Debug("configuration loaded", "file", cfg.File, "dialect", cfg.Dialect, "format", cfg.Format)
			o.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "Config file (default searches ./.querycompiler.yaml and $HOME)")
	flags.StringVarP(&o.dialect, "dialect", "d", "postgresql", "SQL dialect: "+backendNames())
	flags.StringVarP(&o.format, "format", "f", ui.FormatText, "Output format: "+strings.Join(ui.Formats(), ", "))
	flags.BoolVar(&o.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewCompileCommand(o))
	rootCmd.AddCommand(NewExecCommand(o))
	rootCmd.AddCommand(NewLookupsCommand(o))
	rootCmd.AddCommand(NewConfigCommand(o))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

func backendNames() string {
	names := make([]string, 0, 3)
	for _, b := range sqlgen.Backends() {
		names = append(names, b.String())
	}
	return strings.Join(names, ", ")
}
