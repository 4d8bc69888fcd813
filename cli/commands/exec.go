package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querycompiler/cli/internal/ui"
	"github.com/satishbabariya/querycompiler/query/executor"
)

// NewExecCommand creates the exec command.
func NewExecCommand(o *options) *cobra.Command {
	var (
		flags       documentFlags
		databaseURL string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "exec [document]",
		Short: "Compile query documents and run them against a database",
		Long: `Compile each document for the configured dialect and run it. SELECT
documents (and inserts with a returning list) print their rows; other
statements print the number of affected rows. Documents in one file run
inside a single transaction.`,
		Example: `  querycompiler exec -d sqlite --database-url app.db queries.yaml
  DATABASE_URL=postgres://localhost/app querycompiler exec --table users --limit 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := resolveDocuments(cmd, args, &flags)
			if err != nil {
				return err
			}
			if dryRun {
				return compileDocuments(cmd.OutOrStdout(), docs, o, false)
			}

			if databaseURL == "" {
				databaseURL = o.cfg.DatabaseURL
			}
			if databaseURL == "" {
				return fmt.Errorf("no database URL: pass --database-url or set DATABASE_URL")
			}

			b, err := o.backend()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			exec, err := executor.Open(ctx, b, databaseURL)
			if err != nil {
				return err
			}
			defer exec.Close()

			out := cmd.OutOrStdout()
			return exec.Transaction(ctx, func(tx *executor.Tx) error {
				for i, doc := range docs {
					node, err := doc.Build(b)
					if err != nil {
						return fmt.Errorf("%s: %w", documentName(doc, i), err)
					}

					if len(docs) > 1 && o.cfg.Format != ui.FormatJSON {
						ui.PrintSection(out, documentName(doc, i))
					}

					if doc.IsQuery() {
						rows, err := tx.Query(ctx, node)
						if err != nil {
							return fmt.Errorf("%s: %w", documentName(doc, i), err)
						}
						if err := ui.RenderRows(out, rows, o.cfg.Format); err != nil {
							return err
						}
						continue
					}

					res, err := tx.Exec(ctx, node)
					if err != nil {
						return fmt.Errorf("%s: %w", documentName(doc, i), err)
					}
					affected, err := res.RowsAffected()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%d rows affected\n", affected)
				}
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Database connection string (default from config or DATABASE_URL)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the SQL without running it")

	return cmd
}
