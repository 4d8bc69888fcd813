package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/querycompiler/cli/internal/document"
	"github.com/satishbabariya/querycompiler/cli/internal/ui"
	"github.com/satishbabariya/querycompiler/cli/internal/watch"
	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(o *options) *cobra.Command {
	var (
		flags       documentFlags
		allDialects bool
		watchFile   bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "compile [document]",
		Short: "Compile query documents into SQL",
		Long: `Compile a query document (YAML or JSON, "-" for stdin) into SQL and its
parameters. Without a document, a single SELECT is described with flags.`,
		Example: `  querycompiler compile queries.yaml
  querycompiler compile -d sqlite --table users --where 'age >= 18' --order-by -age --limit 10
  querycompiler compile --all-dialects --watch queries.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if err := askDialect(o); err != nil {
					return err
				}
			}

			run := func() error {
				docs, err := resolveDocuments(cmd, args, &flags)
				if err != nil {
					return err
				}
				return compileDocuments(cmd.OutOrStdout(), docs, o, allDialects)
			}

			if !watchFile {
				return run()
			}
			if len(args) == 0 || args[0] == "-" || !fileExists(args[0]) {
				return fmt.Errorf("--watch needs an existing document file")
			}
			return watchDocument(cmd.Context(), args[0], run)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&allDialects, "all-dialects", false, "Compile for every dialect")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "Recompile when the document changes")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose the dialect interactively")

	return cmd
}

func compileDocuments(w io.Writer, docs []document.Document, o *options, allDialects bool) error {
	fallback, err := o.backend()
	if err != nil {
		return err
	}

	multi := len(docs) > 1 || allDialects
	for i, doc := range docs {
		backends := sqlgen.Backends()
		if !allDialects {
			b, err := doc.Backend(fallback)
			if err != nil {
				return err
			}
			backends = []sqlgen.Backend{b}
		}

		for _, b := range backends {
			node, err := doc.Build(b)
			if err != nil {
				return fmt.Errorf("%s: %w", documentName(doc, i), err)
			}
			compiled, err := compiler.New(b).Compile(node)
			if err != nil {
				return fmt.Errorf("%s: %w", documentName(doc, i), err)
			}

			if multi && o.cfg.Format != ui.FormatJSON {
				ui.PrintSection(w, fmt.Sprintf("%s (%s)", documentName(doc, i), b))
			}
			if err := ui.RenderCompiled(w, compiled, o.cfg.Format); err != nil {
				return err
			}
		}
	}
	return nil
}

func documentName(doc document.Document, i int) string {
	if doc.Name != "" {
		return doc.Name
	}
	return fmt.Sprintf("document %d", i+1)
}

func askDialect(o *options) error {
	names := make([]string, 0, 3)
	for _, b := range sqlgen.Backends() {
		names = append(names, b.String())
	}

	var answer string
	prompt := &survey.Select{
		Message: "SQL dialect:",
		Options: names,
	}
	if b, err := o.backend(); err == nil {
		prompt.Default = b.String()
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return err
	}
	o.cfg.Dialect = answer
	return nil
}

func watchDocument(ctx context.Context, path string, run func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.NewWatcher(path, watch.DefaultDebounce, run)
	if err != nil {
		return err
	}

	ui.PrintInfo("Watching %s for changes (Ctrl+C to stop)", path)
	return w.Run(ctx, func(err error) { ui.PrintError("%v", err) })
}
